package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"flyover/internal/render"
)

// ErrDisposed is returned by operations on a disposed Surface.
var ErrDisposed = errors.New("terrain: surface disposed")

// Normals flatter than this (Y component) turn soft ground into rock.
const steepSlope = 0.72

// Geometry fixes where a surface sits and how finely it is sampled.
type Geometry struct {
	OriginX    float64
	OriginZ    float64
	Size       float64
	Resolution int
}

// Validate rejects empty or unsampleable grids.
func (g Geometry) Validate() error {
	if g.Size <= 0 {
		return fmt.Errorf("terrain: surface size %g must be positive", g.Size)
	}
	if g.Resolution < 2 {
		return fmt.Errorf("terrain: resolution %d below 2", g.Resolution)
	}
	return nil
}

// Step is the world distance between neighbouring samples.
func (g Geometry) Step() float64 { return g.Size / float64(g.Resolution-1) }

// Field is the immutable output of sampling a surface's grid. It holds one
// ring of samples beyond the grid so normals match across chunk borders.
// A Field can be produced off the render thread and applied later.
type Field struct {
	Geometry Geometry
	Params   BiomeParams

	heights   []float64
	materials []Material
}

// SampleField evaluates sampler over g with params p.
func SampleField(sampler Sampler, g Geometry, p BiomeParams) (*Field, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := g.Resolution
	w := n + 2
	step := g.Step()
	f := &Field{
		Geometry:  g,
		Params:    p,
		heights:   make([]float64, w*w),
		materials: make([]Material, n*n),
	}
	for j := -1; j <= n; j++ {
		z := g.OriginZ + float64(j)*step
		for i := -1; i <= n; i++ {
			x := g.OriginX + float64(i)*step
			s, err := sampler.Sample(x, z, p)
			if err != nil {
				return nil, fmt.Errorf("terrain: sample (%g, %g): %w", x, z, err)
			}
			if math.IsNaN(s.Height) || math.IsInf(s.Height, 0) {
				return nil, fmt.Errorf("%w: non-finite height at (%g, %g)", ErrInvalidParams, x, z)
			}
			f.heights[(j+1)*w+i+1] = s.Height
			if i >= 0 && i < n && j >= 0 && j < n {
				f.materials[j*n+i] = s.Material
			}
		}
	}
	return f, nil
}

func (f *Field) height(i, j int) float64 {
	w := f.Geometry.Resolution + 2
	return f.heights[(j+1)*w+i+1]
}

// Surface owns one chunk's terrain mesh and its GPU buffer.
type Surface struct {
	device  render.Device
	sampler Sampler

	geometry Geometry
	params   BiomeParams
	mesh     render.Mesh
	buffer   render.Buffer
	// scratch receives in-place updates and is swapped with mesh only once
	// the upload succeeds.
	scratch  render.Mesh

	dirty    bool
	disposed bool
}

// BuildSurface samples g with params p, builds the mesh, and uploads it.
func BuildSurface(device render.Device, sampler Sampler, g Geometry, p BiomeParams) (*Surface, error) {
	s := &Surface{device: device, sampler: sampler}
	f, err := SampleField(sampler, g, p)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(f); err != nil {
		s.Dispose()
		return nil, err
	}
	return s, nil
}

// UpdateNoise resamples the grid with p and overwrites heights, normals, and
// materials in place. The index buffer is kept.
func (s *Surface) UpdateNoise(p BiomeParams) error {
	if s.disposed {
		return ErrDisposed
	}
	f, err := SampleField(s.sampler, s.geometry, p)
	if err != nil {
		s.dirty = true
		return err
	}
	return s.Apply(f)
}

// UpdateTerrainGeo regenerates the surface with its current parameters. A
// positive resolution different from the current one rebuilds the topology
// and reallocates the buffer; otherwise the buffer is updated in place.
func (s *Surface) UpdateTerrainGeo(resolution int) error {
	if s.disposed {
		return ErrDisposed
	}
	g := s.geometry
	if resolution > 0 {
		g.Resolution = resolution
	}
	f, err := SampleField(s.sampler, g, s.params)
	if err != nil {
		s.dirty = true
		return err
	}
	return s.Apply(f)
}

// Apply writes a sampled field into the mesh and uploads it.
func (s *Surface) Apply(f *Field) error {
	if s.disposed {
		return ErrDisposed
	}
	n := f.Geometry.Resolution
	if s.buffer != nil && n == s.mesh.Resolution {
		if s.scratch.Resolution != n {
			s.scratch = newMesh(n)
		}
		fillMesh(&s.scratch, f)
		if err := s.buffer.Update(&s.scratch); err != nil {
			s.dirty = true
			return fmt.Errorf("terrain: update buffer: %w", err)
		}
		s.mesh, s.scratch = s.scratch, s.mesh
		s.commit(f)
		return nil
	}

	next := newMesh(n)
	fillMesh(&next, f)
	buf, err := s.device.NewBuffer(&next)
	if err != nil {
		s.dirty = true
		return fmt.Errorf("terrain: allocate buffer: %w", err)
	}
	old := s.buffer
	s.buffer, s.mesh = buf, next
	s.scratch = render.Mesh{}
	s.commit(f)
	if old != nil {
		if err := old.Release(); err != nil {
			return fmt.Errorf("terrain: release replaced buffer: %w", err)
		}
	}
	return nil
}

func (s *Surface) commit(f *Field) {
	s.geometry = f.Geometry
	s.params = f.Params
	s.dirty = false
}

func newMesh(n int) render.Mesh {
	return render.Mesh{
		Resolution: n,
		Positions:  make([]mgl32.Vec3, n*n),
		Normals:    make([]mgl32.Vec3, n*n),
		Tags:       make([]uint8, n*n),
		Indices:    Topology(n),
	}
}

func fillMesh(m *render.Mesh, f *Field) {
	n := f.Geometry.Resolution
	step := f.Geometry.Step()
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			idx := j*n + i
			h := f.height(i, j)
			normal := mgl32.Vec3{
				float32(f.height(i-1, j) - f.height(i+1, j)),
				float32(2 * step),
				float32(f.height(i, j-1) - f.height(i, j+1)),
			}.Normalize()
			mat := f.materials[idx]
			if mat.isLand() && normal.Y() < steepSlope {
				mat = MaterialRock
			}
			m.Positions[idx] = mgl32.Vec3{float32(float64(i) * step), float32(h), float32(float64(j) * step)}
			m.Normals[idx] = normal
			m.Tags[idx] = uint8(mat)
		}
	}
}

// Dispose releases the GPU buffer. It is idempotent: only the first call
// releases anything, and only it can report a release failure.
func (s *Surface) Dispose() error {
	if s.disposed {
		return nil
	}
	s.disposed = true
	var err error
	if s.buffer != nil {
		err = s.buffer.Release()
		s.buffer = nil
	}
	s.mesh, s.scratch = render.Mesh{}, render.Mesh{}
	if err != nil {
		return fmt.Errorf("terrain: release surface buffer: %w", err)
	}
	return nil
}

// HeightAt interpolates the surface height at local coordinates in
// [0, Size]. It reports false outside the surface or after disposal.
func (s *Surface) HeightAt(lx, lz float64) (float64, bool) {
	if s.disposed || s.mesh.Resolution < 2 {
		return 0, false
	}
	g := s.geometry
	if lx < 0 || lz < 0 || lx > g.Size || lz > g.Size {
		return 0, false
	}
	n := g.Resolution
	step := g.Step()
	fx, fz := lx/step, lz/step
	i0 := min(int(fx), n-2)
	j0 := min(int(fz), n-2)
	tx, tz := fx-float64(i0), fz-float64(j0)
	h := func(i, j int) float64 { return float64(s.mesh.Positions[j*n+i].Y()) }
	top := h(i0, j0)*(1-tx) + h(i0+1, j0)*tx
	bottom := h(i0, j0+1)*(1-tx) + h(i0+1, j0+1)*tx
	return top*(1-tz) + bottom*tz, true
}

// Geometry returns the sampled area.
func (s *Surface) Geometry() Geometry { return s.geometry }

// Params returns the biome parameters of the last successful sampling pass.
func (s *Surface) Params() BiomeParams { return s.params }

// Mesh exposes the current mesh. Callers must not modify it.
func (s *Surface) Mesh() *render.Mesh { return &s.mesh }

// Buffer returns the GPU buffer, or nil once disposed.
func (s *Surface) Buffer() render.Buffer { return s.buffer }

// Dirty reports whether the last regeneration failed and the mesh is stale.
func (s *Surface) Dirty() bool { return s.dirty }

// Disposed reports whether Dispose has run.
func (s *Surface) Disposed() bool { return s.disposed }
