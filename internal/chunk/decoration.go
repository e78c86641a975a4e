package chunk

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"flyover/internal/render"
	"flyover/internal/terrain"
	"flyover/pkg/core"
)

// DecorationKind distinguishes the cosmetic and collectible children of a chunk.
type DecorationKind uint8

const (
	DecorationCloud DecorationKind = iota + 1
	DecorationOrb
)

func (k DecorationKind) String() string {
	switch k {
	case DecorationCloud:
		return "cloud"
	case DecorationOrb:
		return "orb"
	default:
		return fmt.Sprintf("decoration(%d)", uint8(k))
	}
}

const (
	cloudClearance = 60.0
	cloudBand      = 120.0
	orbHover       = 25.0
)

// Decoration is a child node owned by a chunk. Orbs can be collected once.
type Decoration struct {
	Kind      DecorationKind
	Node      *render.Node
	Collected bool

	// lift is the height above the biome top for clouds and above the
	// ground for orbs.
	lift float64
}

// placeDecorations scatters clouds and orbs with an RNG seeded from the chunk
// coordinate, so a recreated chunk gets the same layout. height reports the
// local terrain height for orb placement.
func placeDecorations(snap Snapshot, c Coord, height func(lx, lz float64) (float64, bool)) []*Decoration {
	if snap.Clouds <= 0 && snap.Orbs <= 0 {
		return nil
	}
	rng := core.NewRNG(core.ChunkSeed(snap.Seed, c.Col, c.Row))
	out := make([]*Decoration, 0, snap.Clouds+snap.Orbs)
	for i := 0; i < snap.Clouds; i++ {
		n := render.NewNode(fmt.Sprintf("cloud %v/%d", c, i))
		lift := rng.Range(cloudClearance, cloudClearance+cloudBand)
		n.SetPosition(float32(rng.Range(0, snap.Size)), 0, float32(rng.Range(0, snap.Size)))
		out = append(out, &Decoration{Kind: DecorationCloud, Node: n, lift: lift})
	}
	for i := 0; i < snap.Orbs; i++ {
		n := render.NewNode(fmt.Sprintf("orb %v/%d", c, i))
		n.SetPosition(float32(rng.Range(0, snap.Size)), 0, float32(rng.Range(0, snap.Size)))
		out = append(out, &Decoration{Kind: DecorationOrb, Node: n, lift: orbHover})
	}
	seatDecorations(out, snap.Biome, height)
	return out
}

// seatDecorations sets each decoration's height for biome p. Horizontal
// placement never changes.
func seatDecorations(decorations []*Decoration, p terrain.BiomeParams, height func(lx, lz float64) (float64, bool)) {
	top := p.BaseHeight + p.Amplitude
	for _, d := range decorations {
		pos := d.Node.Position()
		y := top + d.lift
		if d.Kind == DecorationOrb {
			h, ok := height(float64(pos.X()), float64(pos.Z()))
			if !ok {
				h = p.BaseHeight
			}
			y = h + d.lift
		}
		d.Node.SetPosition(pos.X(), float32(y), pos.Z())
	}
}

// collectOrbs marks every uncollected orb within radius of world position p.
func collectOrbs(decorations []*Decoration, p mgl32.Vec3, radius float32) int {
	n := 0
	for _, d := range decorations {
		if d.Kind != DecorationOrb || d.Collected {
			continue
		}
		if d.Node.WorldPosition().Sub(p).Len() <= radius {
			d.Collected = true
			if parent := d.Node.Parent(); parent != nil {
				parent.Remove(d.Node)
			}
			n++
		}
	}
	return n
}
