package chunk

import (
	"errors"
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"flyover/internal/render"
	"flyover/internal/terrain"
)

type fakeTracked struct{ pos mgl64.Vec3 }

func (f *fakeTracked) Position() mgl64.Vec3 { return f.pos }

// moveTo centres the entity in cell c for chunks of the given size.
func (f *fakeTracked) moveTo(c Coord, size float64) {
	f.pos = mgl64.Vec3{(float64(c.Col) + 0.5) * size, f.pos.Y(), (float64(c.Row) + 0.5) * size}
}

type testBuffer struct {
	dev      *testDevice
	updates  int
	releases int
}

func (b *testBuffer) Update(m *render.Mesh) error {
	b.updates++
	return m.Validate()
}

func (b *testBuffer) Release() error {
	b.releases++
	if b.dev.onRelease != nil {
		b.dev.onRelease(b)
	}
	return b.dev.releaseErr
}

type testDevice struct {
	buffers    []*testBuffer
	releaseErr error
	onRelease  func(*testBuffer)
}

func (d *testDevice) NewBuffer(m *render.Mesh) (render.Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := &testBuffer{dev: d}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *testDevice) live() int {
	n := 0
	for _, b := range d.buffers {
		if b.releases == 0 {
			n++
		}
	}
	return n
}

var errSampler = errors.New("sampler offline")

// planeSampler produces h = BaseHeight + x/2 + z/4, so interpolated heights
// are exact and biome changes are visible.
type planeSampler struct {
	calls int
	fail  func(x, z float64) bool
}

func (s *planeSampler) Sample(x, z float64, p terrain.BiomeParams) (terrain.Sample, error) {
	s.calls++
	if err := p.Validate(); err != nil {
		return terrain.Sample{}, err
	}
	if s.fail != nil && s.fail(x, z) {
		return terrain.Sample{}, errSampler
	}
	return terrain.Sample{Height: p.BaseHeight + x/2 + z/4, Material: terrain.MaterialGrass}, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ChunkSize = 16
	cfg.Resolution = 5
	cfg.Radius = 1
	cfg.EvictionMargin = 0
	cfg.MaxCreatesPerFrame = 0
	cfg.ClimbStep = 1.5
	cfg.FallStep = 2
	cfg.Clouds = 0
	cfg.Orbs = 0
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	m       *Manager
	dev     *testDevice
	sampler *planeSampler
	tracked *fakeTracked
	ts      float64
}

func newFixture(cfg Config) (*fixture, error) {
	f := &fixture{dev: &testDevice{}, sampler: &planeSampler{}, tracked: &fakeTracked{}}
	f.tracked.moveTo(Coord{}, cfg.ChunkSize)
	m, err := NewManager(cfg, Env{Device: f.dev, Sampler: f.sampler}, f.tracked, nil, quietLogger())
	if err != nil {
		return nil, err
	}
	f.m = m
	return f, nil
}

func (f *fixture) step(n int) {
	for i := 0; i < n; i++ {
		f.ts += 16
		f.m.Update(f.ts)
	}
}

func window(center Coord, radius int) []Coord {
	var out []Coord
	for row := center.Row - radius; row <= center.Row+radius; row++ {
		for col := center.Col - radius; col <= center.Col+radius; col++ {
			out = append(out, Coord{Col: col, Row: row})
		}
	}
	return out
}

func bufferOf(ch *Chunk) *testBuffer {
	return ch.Surface().Buffer().(*testBuffer)
}
