//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"flyover/internal/render"
)

const minimapSpan = 6

// Overlay draws the residency minimap and a heading indicator on top of the
// terrain view. M toggles the minimap, G the streaming radius outline.
type Overlay struct {
	residency Residency
	cellPx    int

	showMap     bool
	showOutline bool

	painter *render.GridPainter
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for r drawing cellPx pixels per chunk.
func NewOverlay(r Residency, cellPx int) *Overlay {
	if cellPx <= 0 {
		cellPx = 6
	}
	side := 2*minimapSpan + 1
	o := &Overlay{
		residency:   r,
		cellPx:      cellPx,
		showMap:     true,
		showOutline: true,
		painter:     render.NewGridPainter(side, side),
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.showMap = !o.showMap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showOutline = !o.showOutline
	}
}

// Draw renders the minimap at (x, y) with an arrow for heading.
func (o *Overlay) Draw(screen *ebiten.Image, x, y int, heading float64) {
	if !o.showMap || o.residency == nil {
		return
	}
	cells := ResidencyGrid(o.residency, minimapSpan)
	o.painter.Blit(screen, cells, MinimapPalette, o.cellPx, x, y)

	side := 2*minimapSpan + 1
	px := float64(side * o.cellPx)
	cx := float64(x) + px/2
	cy := float64(y) + px/2

	if o.showOutline {
		cfg := o.residency.Config()
		o.drawSquare(screen, cx, cy, float64((2*cfg.Radius+1)*o.cellPx)/2, color.RGBA{R: 230, G: 230, B: 120, A: 255})
		outer := cfg.Radius + cfg.EvictionMargin
		o.drawSquare(screen, cx, cy, float64((2*outer+1)*o.cellPx)/2, color.RGBA{R: 120, G: 160, B: 230, A: 255})
	}

	// Heading 0 faces +Z, which is down on the map.
	arrow := float64(o.cellPx) * 1.5
	tx := cx + math.Sin(heading)*arrow
	ty := cy + math.Cos(heading)*arrow
	o.drawLine(screen, cx, cy, tx, ty, 2, color.RGBA{R: 20, G: 20, B: 20, A: 255})

	if center, ok := o.residency.Center(); ok {
		label := fmt.Sprintf("%v  %d chunks", center, len(o.residency.ResidentCoords()))
		text.Draw(screen, label, basicfont.Face7x13, x, y+int(px)+14, color.White)
	}
}

func (o *Overlay) drawSquare(screen *ebiten.Image, cx, cy, half float64, col color.RGBA) {
	x0, y0, x1, y1 := cx-half, cy-half, cx+half, cy+half
	o.drawLine(screen, x0, y0, x1, y0, 1, col)
	o.drawLine(screen, x1, y0, x1, y1, 1, col)
	o.drawLine(screen, x1, y1, x0, y1, 1, col)
	o.drawLine(screen, x0, y1, x0, y0, 1, col)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
