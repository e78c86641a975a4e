package terrain

import (
	"math"
	"sync"

	"github.com/aquilax/go-perlin"
)

// Classic Perlin noise peaks near ±sqrt(0.5) in 2D; stretch it to ±1.
const perlinGain = math.Sqrt2

// PerlinSampler evaluates fractal Perlin noise. Octaves are layered by
// fractal, so each generator is built with a single octave.
type PerlinSampler struct {
	mu     sync.Mutex
	noises map[int64]*perlin.Perlin
}

// NewPerlinSampler returns a sampler with an empty generator cache.
func NewPerlinSampler() *PerlinSampler {
	return &PerlinSampler{noises: make(map[int64]*perlin.Perlin)}
}

func (s *PerlinSampler) noise(seed int64) *perlin.Perlin {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.noises[seed]
	if !ok {
		n = perlin.NewPerlin(2, 2, 1, seed)
		s.noises[seed] = n
	}
	return n
}

// Sample implements Sampler.
func (s *PerlinSampler) Sample(x, z float64, p BiomeParams) (Sample, error) {
	if err := p.Validate(); err != nil {
		return Sample{}, err
	}
	n := s.noise(p.Seed)
	eval := func(x, z float64) float64 {
		return math.Max(-1, math.Min(1, n.Noise2D(x, z)*perlinGain))
	}
	h := shape(fractal(eval, x, z, p), p)
	return Sample{Height: h, Material: classify(h, p)}, nil
}

func init() {
	RegisterSampler("perlin", func() Sampler { return NewPerlinSampler() })
}
