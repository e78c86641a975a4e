package app

import (
	"strconv"

	"flyover/internal/chunk"
	"flyover/internal/config"
	"flyover/internal/flight"
	"flyover/internal/terrain"
)

// Settings is everything a Scene needs to start.
type Settings struct {
	Streaming chunk.Config
	Biomes    *terrain.BiomeSet
	Aircraft  flight.Config
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Streaming: chunk.DefaultConfig(),
		Biomes:    terrain.DefaultBiomeSet(),
		Aircraft:  flight.DefaultConfig(),
	}
}

// LoadSettings reads cfg.ConfigPath and layers explicitly set flags on top
// of the file's streaming section.
func LoadSettings(cfg *Config, explicit map[string]bool) (Settings, error) {
	file, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	values := file.StreamingMap()
	Merge(values, cfg, explicit)

	biomes, err := file.BiomeSet()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Streaming: chunk.FromMap(values),
		Biomes:    biomes,
		Aircraft:  flight.DefaultConfig(),
	}, nil
}

// Merge writes flag values into the streaming map, but only for flags that
// were explicitly provided on the command line.
func Merge(values map[string]string, cfg *Config, explicit map[string]bool) {
	if explicit["seed"] {
		values["seed"] = strconv.FormatInt(cfg.Seed, 10)
	}
	if explicit["biome"] {
		values["biome"] = cfg.Biome
	}
	if explicit["sampler"] {
		values["sampler"] = cfg.Sampler
	}
	if explicit["radius"] {
		values["radius"] = strconv.Itoa(cfg.Radius)
	}
}
