package chunk

import (
	"strconv"
	"strings"

	"flyover/internal/terrain"
)

// Config controls chunk streaming around the tracked entity.
type Config struct {
	// ChunkSize is the world extent S of one cell along X and Z.
	ChunkSize float64
	// Resolution is the number of samples N along each chunk edge.
	Resolution int

	Radius         int
	EvictionMargin int
	// MaxCreatesPerFrame caps chunk construction per Update. Zero or less
	// removes the cap.
	MaxCreatesPerFrame int

	ClimbStep float64
	FallStep  float64

	Seed    int64
	Sampler string
	Biome   string

	Clouds int
	Orbs   int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:          256,
		Resolution:         33,
		Radius:             3,
		EvictionMargin:     1,
		MaxCreatesPerFrame: 4,
		ClimbStep:          0.5,
		FallStep:           0.5,
		Seed:               1337,
		Sampler:            "simplex",
		Biome:              terrain.DefaultBiome,
		Clouds:             2,
		Orbs:               1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["chunk_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.ChunkSize = parsed
		}
	}
	if v, ok := cfg["resolution"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 2 {
			c.Resolution = parsed
		}
	}
	if v, ok := cfg["radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Radius = parsed
		}
	}
	if v, ok := cfg["eviction_margin"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.EvictionMargin = parsed
		}
	}
	if v, ok := cfg["max_creates_per_frame"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxCreatesPerFrame = parsed
		}
	}
	if v, ok := cfg["climb_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.ClimbStep = parsed
		}
	}
	if v, ok := cfg["fall_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.FallStep = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["sampler"]; ok && strings.TrimSpace(v) != "" {
		c.Sampler = strings.TrimSpace(v)
	}
	if v, ok := cfg["biome"]; ok && strings.TrimSpace(v) != "" {
		c.Biome = strings.TrimSpace(v)
	}
	if v, ok := cfg["clouds"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Clouds = parsed
		}
	}
	if v, ok := cfg["orbs"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Orbs = parsed
		}
	}
	return c
}

// Snapshot is the read-only view of manager state handed to chunk
// construction and regeneration.
type Snapshot struct {
	Size       float64
	Resolution int
	Seed       int64
	Biome      terrain.BiomeParams
	Clouds     int
	Orbs       int
}
