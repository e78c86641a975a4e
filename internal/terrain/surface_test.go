package terrain

import (
	"errors"
	"math"
	"slices"
	"testing"

	"flyover/internal/render"
)

// planeSampler returns h = x + 2z so interpolation and normals are exact.
var planeSampler = SamplerFunc(func(x, z float64, p BiomeParams) (Sample, error) {
	if err := p.Validate(); err != nil {
		return Sample{}, err
	}
	return Sample{Height: x + 2*z, Material: MaterialGrass}, nil
})

type recordingBuffer struct {
	updates    int
	releases   int
	updateErr  error
	releaseErr error
}

func (b *recordingBuffer) Update(m *render.Mesh) error {
	b.updates++
	if b.updateErr != nil {
		return b.updateErr
	}
	return m.Validate()
}

func (b *recordingBuffer) Release() error {
	b.releases++
	return b.releaseErr
}

type recordingDevice struct {
	buffers    []*recordingBuffer
	releaseErr error
}

func (d *recordingDevice) NewBuffer(m *render.Mesh) (render.Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := &recordingBuffer{releaseErr: d.releaseErr}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func testParams() BiomeParams {
	p := DefaultBiomes()[0]
	p.Seed = 7
	return p
}

func testGeometry() Geometry {
	return Geometry{OriginX: 256, OriginZ: -512, Size: 256, Resolution: 17}
}

func TestBuildSurfaceDeterministic(t *testing.T) {
	sampler := NewSimplexSampler()
	a, err := BuildSurface(render.NewMemoryDevice(), sampler, testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	b, err := BuildSurface(render.NewMemoryDevice(), NewSimplexSampler(), testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	if !slices.Equal(a.Mesh().Positions, b.Mesh().Positions) {
		t.Fatal("same coordinate and params produced different positions")
	}
	if !slices.Equal(a.Mesh().Normals, b.Mesh().Normals) {
		t.Fatal("same coordinate and params produced different normals")
	}
	if !slices.Equal(a.Mesh().Tags, b.Mesh().Tags) {
		t.Fatal("same coordinate and params produced different materials")
	}

	before := append([]uint8(nil), a.Mesh().Tags...)
	positions := append(a.Mesh().Positions[:0:0], a.Mesh().Positions...)
	if err := a.UpdateNoise(testParams()); err != nil {
		t.Fatalf("UpdateNoise: %v", err)
	}
	if !slices.Equal(positions, a.Mesh().Positions) || !slices.Equal(before, a.Mesh().Tags) {
		t.Fatal("UpdateNoise with unchanged params altered geometry")
	}
}

func TestUpdateNoiseKeepsBufferAndTopology(t *testing.T) {
	dev := &recordingDevice{}
	s, err := BuildSurface(dev, NewSimplexSampler(), testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	indices := s.Mesh().Indices
	buf := s.Buffer()
	before := append(s.Mesh().Positions[:0:0], s.Mesh().Positions...)

	desert, err := DefaultBiomeSet().Lookup("desert")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if err := s.UpdateNoise(desert); err != nil {
		t.Fatalf("UpdateNoise: %v", err)
	}
	if s.Buffer() != buf || len(dev.buffers) != 1 {
		t.Fatal("UpdateNoise reallocated the buffer")
	}
	if dev.buffers[0].updates != 1 {
		t.Fatalf("buffer updates %d, want 1", dev.buffers[0].updates)
	}
	if &s.Mesh().Indices[0] != &indices[0] {
		t.Fatal("UpdateNoise replaced the index buffer")
	}
	if slices.Equal(before, s.Mesh().Positions) {
		t.Fatal("biome change did not alter heights")
	}
	if s.Params().Name != "desert" {
		t.Fatalf("params %q not recorded", s.Params().Name)
	}
	for i, p := range s.Mesh().Positions {
		if p.X() != before[i].X() || p.Z() != before[i].Z() {
			t.Fatalf("vertex %d moved horizontally", i)
		}
	}
}

// baseSampler is flat at the biome's base height.
var baseSampler = SamplerFunc(func(x, z float64, p BiomeParams) (Sample, error) {
	if err := p.Validate(); err != nil {
		return Sample{}, err
	}
	return Sample{Height: p.BaseHeight, Material: MaterialGrass}, nil
})

func TestFailedUploadKeepsPreviousMesh(t *testing.T) {
	dev := &recordingDevice{}
	low := testParams()
	low.BaseHeight = -40
	s, err := BuildSurface(dev, baseSampler, testGeometry(), low)
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	before := append(s.Mesh().Positions[:0:0], s.Mesh().Positions...)

	high := low
	high.BaseHeight = 100
	dev.buffers[0].updateErr = errors.New("device lost")
	if err := s.UpdateNoise(high); err == nil {
		t.Fatal("expected upload failure")
	}
	if h, _ := s.HeightAt(10, 10); math.Abs(h+40) > 1e-6 {
		t.Fatalf("height after failed upload = %f, want -40", h)
	}
	if !slices.Equal(before, s.Mesh().Positions) {
		t.Fatal("failed upload altered the mesh")
	}
	if s.Params().BaseHeight != -40 || !s.Dirty() {
		t.Fatalf("params %g dirty=%v after failed upload", s.Params().BaseHeight, s.Dirty())
	}

	dev.buffers[0].updateErr = nil
	if err := s.UpdateNoise(high); err != nil {
		t.Fatalf("UpdateNoise retry: %v", err)
	}
	if h, _ := s.HeightAt(10, 10); math.Abs(h-100) > 1e-6 {
		t.Fatalf("height after retry = %f, want 100", h)
	}
	if s.Dirty() || len(dev.buffers) != 1 {
		t.Fatalf("retry dirty=%v buffers=%d", s.Dirty(), len(dev.buffers))
	}
}

func TestUpdateTerrainGeoChangesResolution(t *testing.T) {
	dev := &recordingDevice{}
	s, err := BuildSurface(dev, planeSampler, testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	if err := s.UpdateTerrainGeo(0); err != nil {
		t.Fatalf("UpdateTerrainGeo: %v", err)
	}
	if len(dev.buffers) != 1 || dev.buffers[0].updates != 1 {
		t.Fatal("same-resolution rebuild should update in place")
	}

	if err := s.UpdateTerrainGeo(9); err != nil {
		t.Fatalf("UpdateTerrainGeo: %v", err)
	}
	if len(dev.buffers) != 2 {
		t.Fatalf("buffers allocated %d, want 2", len(dev.buffers))
	}
	if dev.buffers[0].releases != 1 {
		t.Fatal("replaced buffer was not released")
	}
	if got := s.Mesh().Resolution; got != 9 {
		t.Fatalf("resolution %d, want 9", got)
	}
	if got := len(s.Mesh().Indices); got != 8*8*6 {
		t.Fatalf("indices %d, want %d", got, 8*8*6)
	}
}

func TestSurfaceDisposeIdempotent(t *testing.T) {
	dev := &recordingDevice{releaseErr: errors.New("device lost")}
	s, err := BuildSurface(dev, planeSampler, testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	if err := s.Dispose(); err == nil {
		t.Fatal("expected release failure to propagate")
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("second Dispose returned %v", err)
	}
	if dev.buffers[0].releases != 1 {
		t.Fatalf("buffer released %d times", dev.buffers[0].releases)
	}
	if !s.Disposed() || s.Buffer() != nil {
		t.Fatal("surface still holds its buffer")
	}
	if err := s.UpdateNoise(testParams()); !errors.Is(err, ErrDisposed) {
		t.Fatalf("UpdateNoise after Dispose returned %v", err)
	}
	if _, ok := s.HeightAt(1, 1); ok {
		t.Fatal("disposed surface answered a height query")
	}
}

func TestSurfaceNormalsAndHeights(t *testing.T) {
	s, err := BuildSurface(render.NewMemoryDevice(), planeSampler, testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	g := testGeometry()
	// Plane h = x + 2z has normal (-1, 1, -2) normalized everywhere, including borders.
	want := [3]float64{-1 / math.Sqrt(6), 1 / math.Sqrt(6), -2 / math.Sqrt(6)}
	for i, n := range s.Mesh().Normals {
		for k := 0; k < 3; k++ {
			if math.Abs(float64(n[k])-want[k]) > 1e-4 {
				t.Fatalf("normal %d = %v, want %v", i, n, want)
			}
		}
	}
	lx, lz := 37.5, 101.25
	h, ok := s.HeightAt(lx, lz)
	if !ok {
		t.Fatal("HeightAt inside surface reported false")
	}
	expected := (g.OriginX + lx) + 2*(g.OriginZ+lz)
	if math.Abs(h-expected) > 0.05 {
		t.Fatalf("HeightAt = %f, want %f", h, expected)
	}
	if _, ok := s.HeightAt(-1, 0); ok {
		t.Fatal("HeightAt outside surface reported true")
	}
	for _, tag := range s.Mesh().Tags {
		if Material(tag) != MaterialRock {
			t.Fatalf("steep plane should be rock, got %v", Material(tag))
		}
	}
}

func TestBuildSurfaceRejectsInvalidParams(t *testing.T) {
	dev := &recordingDevice{}
	p := testParams()
	p.Octaves = 0
	if _, err := BuildSurface(dev, NewSimplexSampler(), testGeometry(), p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if len(dev.buffers) != 0 {
		t.Fatal("failed build allocated a buffer")
	}

	s, err := BuildSurface(dev, NewSimplexSampler(), testGeometry(), testParams())
	if err != nil {
		t.Fatalf("BuildSurface: %v", err)
	}
	if err := s.UpdateNoise(p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if !s.Dirty() {
		t.Fatal("failed regeneration should mark the surface dirty")
	}
	if s.Params().Octaves != testParams().Octaves {
		t.Fatal("failed regeneration replaced params")
	}
	if err := s.UpdateNoise(testParams()); err != nil || s.Dirty() {
		t.Fatalf("retry failed: %v dirty=%v", err, s.Dirty())
	}
}

func TestTopologyShared(t *testing.T) {
	a := Topology(5)
	b := Topology(5)
	if &a[0] != &b[0] {
		t.Fatal("topology not shared between callers")
	}
	if len(a) != 4*4*6 {
		t.Fatalf("indices %d", len(a))
	}
	for _, idx := range a {
		if idx >= 25 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}
