package terrain

import (
	"sync"

	"github.com/ojrac/opensimplex-go"
)

// SimplexSampler evaluates fractal OpenSimplex noise. Generators are cached
// per seed; the cache never changes the output for a given input.
type SimplexSampler struct {
	mu     sync.Mutex
	noises map[int64]opensimplex.Noise
}

// NewSimplexSampler returns a sampler with an empty generator cache.
func NewSimplexSampler() *SimplexSampler {
	return &SimplexSampler{noises: make(map[int64]opensimplex.Noise)}
}

func (s *SimplexSampler) noise(seed int64) opensimplex.Noise {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.noises[seed]
	if !ok {
		n = opensimplex.New(seed)
		s.noises[seed] = n
	}
	return n
}

// Sample implements Sampler.
func (s *SimplexSampler) Sample(x, z float64, p BiomeParams) (Sample, error) {
	if err := p.Validate(); err != nil {
		return Sample{}, err
	}
	n := s.noise(p.Seed)
	h := shape(fractal(n.Eval2, x, z, p), p)
	return Sample{Height: h, Material: classify(h, p)}, nil
}

func init() {
	RegisterSampler("simplex", func() Sampler { return NewSimplexSampler() })
}
