package terrain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownSampler is returned by NewSampler for unregistered names.
var ErrUnknownSampler = errors.New("terrain: unknown sampler")

// Sample is one height field evaluation.
type Sample struct {
	Height   float64
	Material Material
}

// Sampler maps a world-space (x, z) and biome parameters to a Sample. It must
// be a pure function of its inputs and safe to call concurrently.
type Sampler interface {
	Sample(x, z float64, p BiomeParams) (Sample, error)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(x, z float64, p BiomeParams) (Sample, error)

// Sample calls f.
func (f SamplerFunc) Sample(x, z float64, p BiomeParams) (Sample, error) { return f(x, z, p) }

// SamplerFactory constructs a Sampler.
type SamplerFactory func() Sampler

var samplers = map[string]SamplerFactory{}

// RegisterSampler adds a sampler factory under the provided name.
func RegisterSampler(name string, f SamplerFactory) {
	if name == "" || f == nil {
		return
	}
	samplers[name] = f
}

// NewSampler instantiates the sampler registered under name.
func NewSampler(name string) (Sampler, error) {
	f, ok := samplers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSampler, name)
	}
	return f(), nil
}

// SamplerNames lists registered samplers alphabetically.
func SamplerNames() []string {
	names := make([]string, 0, len(samplers))
	for name := range samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fractal layers octaves of noise and normalizes the sum to roughly [-1, 1].
func fractal(noise func(x, z float64) float64, x, z float64, p BiomeParams) float64 {
	var total, maxVal float64
	amplitude := 1.0
	frequency := p.Frequency
	for range p.Octaves {
		total += noise(x*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	return total / maxVal
}

// shape turns normalized noise into a world height.
func shape(n float64, p BiomeParams) float64 {
	u := (n + 1) / 2
	u = math.Max(0, math.Min(1, u))
	if p.Exponent > 0 && p.Exponent != 1 {
		u = math.Pow(u, p.Exponent)
	}
	return p.BaseHeight + u*p.Amplitude
}

// classify picks a material from height alone; slope refinements happen when
// the surface computes normals.
func classify(h float64, p BiomeParams) Material {
	if h < p.WaterLevel {
		return MaterialWater
	}
	var m Material
	rel := (h - p.BaseHeight) / math.Max(p.Amplitude, 1)
	switch {
	case p.SnowLine > 0 && h >= p.SnowLine:
		m = MaterialSnow
	case h < p.WaterLevel+math.Max(p.Amplitude*0.02, 1):
		m = MaterialSand
	case rel > 0.7:
		m = MaterialRock
	case rel > 0.4:
		m = MaterialForest
	default:
		m = MaterialGrass
	}
	if p.Ground != MaterialNone && m != MaterialSnow {
		m = p.Ground
	}
	return m
}
