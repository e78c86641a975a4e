package chunk

import (
	"github.com/go-gl/mathgl/mgl32"

	"flyover/internal/render"
	"flyover/internal/terrain"
)

// Env carries the services chunks build against.
type Env struct {
	Device  render.Device
	Sampler terrain.Sampler
}

// Chunk is one resident grid cell: a group node placed at the cell origin
// holding the terrain leaf and any decorations.
type Chunk struct {
	coord Coord
	size  float64

	node        *render.Node
	terrainNode *render.Node
	surface     *terrain.Surface
	decorations []*Decoration

	disposed bool
}

// NewChunk builds the terrain for c from snap and places the chunk node.
// On failure nothing is allocated and a *GenerationError is returned.
func NewChunk(env Env, snap Snapshot, c Coord) (*Chunk, error) {
	ox, oz := c.Origin(snap.Size)
	g := terrain.Geometry{OriginX: ox, OriginZ: oz, Size: snap.Size, Resolution: snap.Resolution}
	surface, err := terrain.BuildSurface(env.Device, env.Sampler, g, snap.Biome)
	if err != nil {
		return nil, &GenerationError{Coord: c, Err: err}
	}

	ch := &Chunk{coord: c, size: snap.Size, surface: surface}
	ch.node = render.NewNode("chunk " + c.String())
	ch.node.SetPosition(float32(ox), 0, float32(oz))
	ch.terrainNode = render.NewNode("terrain " + c.String())
	ch.terrainNode.Mesh = surface.Buffer()
	ch.node.Add(ch.terrainNode)

	ch.decorations = placeDecorations(snap, c, surface.HeightAt)
	for _, d := range ch.decorations {
		ch.node.Add(d.Node)
	}
	return ch, nil
}

// UpdateNoise resamples the terrain with the snapshot's biome.
func (c *Chunk) UpdateNoise(snap Snapshot) error {
	if err := c.surface.UpdateNoise(snap.Biome); err != nil {
		return &GenerationError{Coord: c.coord, Err: err}
	}
	seatDecorations(c.decorations, snap.Biome, c.surface.HeightAt)
	return nil
}

// UpdateTerrainGeo rebuilds the terrain at the snapshot's resolution.
func (c *Chunk) UpdateTerrainGeo(snap Snapshot) error {
	err := c.surface.UpdateTerrainGeo(snap.Resolution)
	c.terrainNode.Mesh = c.surface.Buffer()
	if err != nil {
		return &GenerationError{Coord: c.coord, Err: err}
	}
	seatDecorations(c.decorations, c.surface.Params(), c.surface.HeightAt)
	return nil
}

// Dispose releases the terrain buffer and detaches all children. It is the
// only way a chunk's resources are freed and it is safe to call twice; only
// the first call can report a failure.
func (c *Chunk) Dispose() error {
	if c.disposed {
		return nil
	}
	c.disposed = true
	err := c.surface.Dispose()
	c.terrainNode.Mesh = nil
	c.node.Remove(c.terrainNode)
	for _, d := range c.decorations {
		c.node.Remove(d.Node)
	}
	c.decorations = nil
	if err != nil {
		return &DisposalError{Coord: c.coord, Err: err}
	}
	return nil
}

// HeightAt returns the terrain height at world (x, z) relative to the
// chunk node, and false when the point lies outside this chunk.
func (c *Chunk) HeightAt(x, z float64) (float64, bool) {
	ox, oz := c.coord.Origin(c.size)
	return c.surface.HeightAt(x-ox, z-oz)
}

// CollectOrbs collects orbs within radius of world position p.
func (c *Chunk) CollectOrbs(p mgl32.Vec3, radius float32) int {
	if c.disposed {
		return 0
	}
	return collectOrbs(c.decorations, p, radius)
}

// Coord returns the chunk's grid cell.
func (c *Chunk) Coord() Coord { return c.coord }

// Node returns the chunk's group node.
func (c *Chunk) Node() *render.Node { return c.node }

// Surface returns the owned terrain surface.
func (c *Chunk) Surface() *terrain.Surface { return c.surface }

// Decorations returns the chunk's current decorations.
func (c *Chunk) Decorations() []*Decoration { return c.decorations }

// Dirty reports whether the last regeneration failed.
func (c *Chunk) Dirty() bool { return c.surface.Dirty() }

// Disposed reports whether Dispose has run.
func (c *Chunk) Disposed() bool { return c.disposed }
