package ui

import (
	"image/color"

	"flyover/internal/chunk"
)

// Residency cell states drawn by the minimap.
const (
	CellEmpty uint8 = iota
	CellResident
	CellMargin
	CellDirty
	CellMissing
	CellCenter
)

// MinimapPalette colours the residency states.
var MinimapPalette = []color.RGBA{
	CellEmpty:    {R: 12, G: 12, B: 16, A: 200},
	CellResident: {R: 70, G: 140, B: 90, A: 230},
	CellMargin:   {R: 60, G: 90, B: 120, A: 230},
	CellDirty:    {R: 210, G: 150, B: 40, A: 230},
	CellMissing:  {R: 190, G: 50, B: 50, A: 230},
	CellCenter:   {R: 240, G: 240, B: 240, A: 255},
}

// Residency is what the minimap needs to know about the chunk manager.
type Residency interface {
	ResidentCoords() []chunk.Coord
	Chunk(c chunk.Coord) (*chunk.Chunk, bool)
	Center() (chunk.Coord, bool)
	Config() chunk.Config
}

// ResidencyGrid classifies the (2*span+1)² cells around the tracked cell in
// row-major order, north row first.
func ResidencyGrid(r Residency, span int) []uint8 {
	side := 2*span + 1
	cells := make([]uint8, side*side)
	center, ok := r.Center()
	if !ok {
		return cells
	}
	radius := r.Config().Radius
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			c := chunk.Coord{Col: center.Col - span + x, Row: center.Row - span + y}
			cells[y*side+x] = classifyCell(r, c, center, radius)
		}
	}
	return cells
}

func classifyCell(r Residency, c, center chunk.Coord, radius int) uint8 {
	ch, resident := r.Chunk(c)
	switch {
	case c == center:
		return CellCenter
	case resident && ch.Dirty():
		return CellDirty
	case resident && c.Distance(center) > radius:
		return CellMargin
	case resident:
		return CellResident
	case c.Distance(center) <= radius:
		return CellMissing
	default:
		return CellEmpty
	}
}
