package chunk

import (
	"fmt"
	"math"
	"sort"
)

// Coord identifies a chunk slot on the infinite grid.
type Coord struct {
	Col int
	Row int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }

// CoordAt returns the cell containing world position (x, z) for chunks of
// the given size. Cells are half-open: [col*size, (col+1)*size).
func CoordAt(x, z, size float64) Coord {
	return Coord{
		Col: int(math.Floor(x / size)),
		Row: int(math.Floor(z / size)),
	}
}

// Origin returns the world (x, z) of the cell's minimum corner.
func (c Coord) Origin(size float64) (x, z float64) {
	return float64(c.Col) * size, float64(c.Row) * size
}

// Distance is the Chebyshev distance between two cells.
func (c Coord) Distance(o Coord) int {
	return max(abs(c.Col-o.Col), abs(c.Row-o.Row))
}

func (c Coord) dist2(o Coord) int {
	dc, dr := c.Col-o.Col, c.Row-o.Row
	return dc*dc + dr*dr
}

// RequiredSet lists every cell within radius of center, nearest first.
// Ties on squared Euclidean distance are broken by column, then row, so the
// order is stable.
func RequiredSet(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	out := make([]Coord, 0, side*side)
	for row := center.Row - radius; row <= center.Row+radius; row++ {
		for col := center.Col - radius; col <= center.Col+radius; col++ {
			out = append(out, Coord{Col: col, Row: row})
		}
	}
	sortNearest(out, center)
	return out
}

func sortNearest(coords []Coord, center Coord) {
	sort.Slice(coords, func(i, j int) bool {
		di, dj := coords[i].dist2(center), coords[j].dist2(center)
		if di != dj {
			return di < dj
		}
		if coords[i].Col != coords[j].Col {
			return coords[i].Col < coords[j].Col
		}
		return coords[i].Row < coords[j].Row
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
