//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"flyover/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusSpacing  = 16
	statusRows     = 6
	controlsTop    = panelPadding + headerBaseline + 14
)

var (
	panelColor      = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	statusColor     = color.RGBA{R: 170, G: 190, B: 200, A: 255}
	labelColor      = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor     = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonMuted     = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonText      = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonTextMuted = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// HUD renders the parameter panel to the right of the terrain view: a
// status block of read-only values followed by +/- controls.
type HUD struct {
	title  string
	width  int
	source core.ParameterProvider
	ints   core.IntParameterSetter
	floats core.FloatParameterSetter

	status   []core.Parameter
	controls []hudRow
	offsetX  int

	panel *ebiten.Image
	pixel *ebiten.Image
}

type hudRow struct {
	control
	top         int
	minus, plus image.Rectangle
}

// NewHUD constructs a HUD for target. Whatever core parameter interfaces
// target implements are picked up; the rest are ignored.
func NewHUD(title string, target any, width int) *HUD {
	h := &HUD{title: title, width: max(width, 0)}
	h.source, _ = target.(core.ParameterProvider)
	h.ints, _ = target.(core.IntParameterSetter)
	h.floats, _ = target.(core.FloatParameterSetter)
	if provider, ok := target.(core.ParameterControlsProvider); ok {
		for i, spec := range provider.ParameterControls() {
			top := controlsTop + statusRows*statusSpacing + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, hudRow{control: control{spec: spec, label: "--"}, top: top, minus: minus, plus: plus})
		}
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Update refreshes values from the target and handles button clicks. The
// panel's left edge sits at offsetX on screen.
func (h *HUD) Update(offsetX int) {
	if h == nil || h.source == nil {
		return
	}
	h.offsetX = offsetX
	snap := h.source.Parameters()
	h.status = statusLines(snap)
	params := paramIndex(snap)
	for i := range h.controls {
		h.controls[i].refresh(params)
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	p := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		row := &h.controls[i]
		dir := 0
		switch {
		case p.In(row.minus):
			dir = -1
		case p.In(row.plus):
			dir = 1
		default:
			continue
		}
		if v, ok := row.next(dir); ok {
			row.apply(v, h.ints, h.floats)
		}
		return
	}
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for i, p := range h.status {
		if i == statusRows {
			break
		}
		line := fmt.Sprintf("%s: %s", p.Label, p.Value)
		text.Draw(h.panel, line, face, panelPadding, panelPadding+headerBaseline+statusSpacing*(i+1), statusColor)
	}
	for i := range h.controls {
		row := &h.controls[i]
		baseline := row.top + labelBaseline
		text.Draw(h.panel, row.spec.Label, face, panelPadding, baseline, labelColor)
		valueColor := labelColor
		if !row.hasValue {
			valueColor = mutedColor
		}
		w := text.BoundString(face, row.label).Dx()
		text.Draw(h.panel, row.label, face, row.minus.Min.X-buttonGap-w, baseline, valueColor)
		_, canDec := row.next(-1)
		_, canInc := row.next(1)
		h.drawButton(row.minus, "-", canDec)
		h.drawButton(row.plus, "+", canInc)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, buttonText
	if !enabled {
		bg, fg = buttonMuted, buttonTextMuted
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
