package ui

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"flyover/internal/chunk"
	"flyover/internal/render"
)

type point struct{ pos mgl64.Vec3 }

func (p *point) Position() mgl64.Vec3 { return p.pos }

func TestResidencyGrid(t *testing.T) {
	cfg := chunk.DefaultConfig()
	cfg.ChunkSize = 32
	cfg.Resolution = 5
	cfg.Radius = 1
	cfg.EvictionMargin = 1
	cfg.MaxCreatesPerFrame = 0
	tracked := &point{pos: mgl64.Vec3{16, 0, 16}}
	m, err := chunk.NewManager(cfg, chunk.Env{Device: render.NewMemoryDevice()}, tracked, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.Update(0)
	m.SetIntParameter("max_creates_per_frame", 1)
	tracked.pos = mgl64.Vec3{48, 0, 16}
	m.Update(16)

	got := ResidencyGrid(m, 2)
	if len(got) != 25 {
		t.Fatalf("grid has %d cells", len(got))
	}
	// Grid spans columns -1..3 and rows -2..2 around center (1,0).
	at := func(col, row int) uint8 { return got[(row+2)*5+(col+1)] }
	checks := []struct {
		col, row int
		want     uint8
	}{
		{1, 0, CellCenter},
		{0, 0, CellResident},
		{2, 0, CellResident},
		{-1, 0, CellMargin},
		{2, -1, CellMissing},
		{2, 1, CellMissing},
		{3, 0, CellEmpty},
		{1, 2, CellEmpty},
	}
	for _, c := range checks {
		if v := at(c.col, c.row); v != c.want {
			t.Fatalf("cell (%d,%d) = %d, want %d", c.col, c.row, v, c.want)
		}
	}
}

func TestResidencyGridBeforeFirstUpdate(t *testing.T) {
	m, err := chunk.NewManager(chunk.DefaultConfig(), chunk.Env{Device: render.NewMemoryDevice()}, &point{}, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for i, v := range ResidencyGrid(m, 1) {
		if v != CellEmpty {
			t.Fatalf("cell %d = %d before any update", i, v)
		}
	}
}
