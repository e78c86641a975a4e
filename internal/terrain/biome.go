package terrain

import (
	"errors"
	"fmt"
	"sort"
)

// Built-in biome identifiers.
const (
	DefaultBiome = "default"
	SpaceBiome   = "space"
)

var (
	// ErrInvalidParams marks biome parameters a sampler cannot use.
	ErrInvalidParams = errors.New("terrain: invalid biome parameters")
	// ErrUnknownBiome is returned for identifiers missing from a BiomeSet.
	ErrUnknownBiome = errors.New("terrain: unknown biome")
)

// BiomeParams configures one NoiseSampler pass. Heights are
// BaseHeight + Amplitude*shape(fbm(x*Frequency, z*Frequency)).
type BiomeParams struct {
	Name        string   `yaml:"name"`
	Seed        int64    `yaml:"seed"`
	Frequency   float64  `yaml:"frequency"`
	Octaves     int      `yaml:"octaves"`
	Persistence float64  `yaml:"persistence"`
	Lacunarity  float64  `yaml:"lacunarity"`
	Amplitude   float64  `yaml:"amplitude"`
	BaseHeight  float64  `yaml:"base_height"`
	Exponent    float64  `yaml:"exponent"`
	WaterLevel  float64  `yaml:"water_level"`
	SnowLine    float64  `yaml:"snow_line"`
	Ground      Material `yaml:"ground"`
}

// Validate rejects parameter sets that would produce degenerate or
// non-finite heights.
func (p BiomeParams) Validate() error {
	switch {
	case p.Frequency <= 0:
		return fmt.Errorf("%w: frequency %g must be positive", ErrInvalidParams, p.Frequency)
	case p.Octaves < 1 || p.Octaves > 12:
		return fmt.Errorf("%w: octaves %d outside [1,12]", ErrInvalidParams, p.Octaves)
	case p.Persistence <= 0 || p.Persistence > 1:
		return fmt.Errorf("%w: persistence %g outside (0,1]", ErrInvalidParams, p.Persistence)
	case p.Lacunarity < 1:
		return fmt.Errorf("%w: lacunarity %g below 1", ErrInvalidParams, p.Lacunarity)
	case p.Amplitude < 0:
		return fmt.Errorf("%w: negative amplitude %g", ErrInvalidParams, p.Amplitude)
	case p.Exponent < 0:
		return fmt.Errorf("%w: negative exponent %g", ErrInvalidParams, p.Exponent)
	case p.Ground >= materialCount:
		return fmt.Errorf("%w: ground %v", ErrInvalidParams, p.Ground)
	}
	return nil
}

// DefaultBiomes returns the built-in biome table.
func DefaultBiomes() []BiomeParams {
	return []BiomeParams{
		{
			Name: DefaultBiome, Frequency: 0.004, Octaves: 5, Persistence: 0.5, Lacunarity: 2,
			Amplitude: 160, BaseHeight: -40, Exponent: 1.6, WaterLevel: 0, SnowLine: 95,
		},
		{
			Name: "desert", Seed: 11, Frequency: 0.0025, Octaves: 3, Persistence: 0.4, Lacunarity: 2,
			Amplitude: 60, BaseHeight: 0, Exponent: 1, WaterLevel: -1, Ground: MaterialSand,
		},
		{
			Name: "alpine", Seed: 23, Frequency: 0.005, Octaves: 6, Persistence: 0.55, Lacunarity: 2.1,
			Amplitude: 260, BaseHeight: -20, Exponent: 2.2, WaterLevel: 5, SnowLine: 120,
		},
		{
			Name: SpaceBiome, Seed: 42, Frequency: 0.008, Octaves: 2, Persistence: 0.5, Lacunarity: 2,
			Amplitude: 30, BaseHeight: -60, Exponent: 1, WaterLevel: -1000, Ground: MaterialDust,
		},
	}
}

// BiomeSet is a lookup table of named biome parameters.
type BiomeSet struct {
	biomes map[string]BiomeParams
}

// NewBiomeSet builds a set from the given parameters. Later entries replace
// earlier ones with the same name.
func NewBiomeSet(params ...BiomeParams) (*BiomeSet, error) {
	s := &BiomeSet{biomes: make(map[string]BiomeParams, len(params))}
	if err := s.Merge(params); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultBiomeSet returns a set holding DefaultBiomes.
func DefaultBiomeSet() *BiomeSet {
	s, err := NewBiomeSet(DefaultBiomes()...)
	if err != nil {
		panic(err)
	}
	return s
}

// Merge validates and inserts params, replacing same-named entries.
func (s *BiomeSet) Merge(params []BiomeParams) error {
	for _, p := range params {
		if p.Name == "" {
			return fmt.Errorf("%w: biome without name", ErrInvalidParams)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("biome %q: %w", p.Name, err)
		}
	}
	for _, p := range params {
		s.biomes[p.Name] = p
	}
	return nil
}

// Lookup returns the parameters registered under name.
func (s *BiomeSet) Lookup(name string) (BiomeParams, error) {
	p, ok := s.biomes[name]
	if !ok {
		return BiomeParams{}, fmt.Errorf("%w: %q", ErrUnknownBiome, name)
	}
	return p, nil
}

// Names lists the registered biomes alphabetically.
func (s *BiomeSet) Names() []string {
	names := make([]string, 0, len(s.biomes))
	for name := range s.biomes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
