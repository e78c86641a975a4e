//go:build ebiten

package app

import (
	"errors"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"flyover/internal/chunk"
	"flyover/internal/core"
	"flyover/internal/flight"
	"flyover/internal/render"
	"flyover/internal/terrain"
	"flyover/internal/ui"
)

const (
	hudWidth       = 260
	chunkTexture   = 128
	defaultReward  = 400
	minimapCellPx  = 6
	minimapPadding = 12
)

var (
	skyColor   = color.RGBA{R: 126, G: 192, B: 238, A: 255}
	spaceColor = color.RGBA{R: 8, G: 8, B: 20, A: 255}
	cloudColor = color.RGBA{R: 250, G: 250, B: 255, A: 140}
	orbColor   = color.RGBA{R: 255, G: 214, B: 64, A: 255}
	planeColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
)

// Game adapts a Scene to the ebiten.Game interface with a top-down camera
// centred on the aircraft.
type Game struct {
	scene   *Scene
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   *core.FrameClock
	log     *slog.Logger

	width  int
	height int
	scale  int
}

// New builds the scene on an ebiten-backed device.
func New(cfg *Config, s Settings, log *slog.Logger) (*Game, error) {
	if log == nil {
		log = slog.Default()
	}
	device := render.NewEbitenDevice(terrain.Palette(), chunkTexture)
	scene, err := NewScene(s, device, log)
	if err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		scene:   scene,
		hud:     ui.NewHUD("Terrain", scene.Manager, hudWidth),
		overlay: ui.NewOverlay(scene.Manager, minimapCellPx),
		clock:   core.NewFrameClock(cfg.TPS),
		log:     log,
		width:   cfg.Width,
		height:  cfg.Height,
		scale:   scale,
	}, nil
}

// Scene exposes the underlying scene.
func (g *Game) Scene() *Scene { return g.scene }

// Update handles per-frame input and advances the scene.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.scene.Reset()
		g.clock.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		if name, err := g.scene.CycleBiome(); err != nil {
			g.log.Warn("biome switch failed", "error", err)
		} else {
			g.log.Info("biome switched", "biome", name)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		m := g.scene.Manager
		if m.ToSpace() {
			m.ResetBiome()
		} else {
			if m.SpaceRewardHeight() <= 0 {
				m.SetSpaceRewardHeight(defaultReward)
			}
			m.SetToSpace(true)
		}
	}

	g.scene.Aircraft.SetControls(flight.Controls{
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Climb: ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Dive:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
	})

	g.scene.Update(g.clock.Tick())
	g.hud.Update(g.viewWidth())
	g.overlay.Update()
	return nil
}

func (g *Game) viewWidth() int { return g.width * g.scale }

// zoom is screen pixels per world unit; the streaming window fills the view.
func (g *Game) zoom() float64 {
	cfg := g.scene.Manager.Config()
	span := float64(2*cfg.Radius+1) * cfg.ChunkSize
	return float64(min(g.width, g.height)*g.scale) / span
}

// Draw renders resident chunks, decorations, the aircraft, and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	m := g.scene.Manager
	if m.Biome().Name == terrain.SpaceBiome {
		screen.Fill(spaceColor)
	} else {
		screen.Fill(skyColor)
	}

	zoom := g.zoom()
	cam := g.scene.Aircraft.Position()
	w, h := float64(g.viewWidth()), float64(g.height*g.scale)
	toScreen := func(x, z float64) (float32, float32) {
		return float32(w/2 + (x-cam.X())*zoom), float32(h/2 + (z-cam.Z())*zoom)
	}

	// Climbing pushes the ground away; fade it accordingly.
	shade := float32(math.Max(0.35, math.Min(1.15, 1+m.Offset()/1500)))
	size := m.Config().ChunkSize
	for _, c := range m.ResidentCoords() {
		ch, _ := m.Chunk(c)
		g.drawChunk(screen, ch, size, zoom, shade, toScreen)
	}
	for _, c := range m.ResidentCoords() {
		ch, _ := m.Chunk(c)
		g.drawDecorations(screen, ch, zoom, toScreen)
	}
	g.drawAircraft(screen, toScreen)

	g.overlay.Draw(screen, minimapPadding, minimapPadding, g.scene.Aircraft.Heading())
	g.hud.Draw(screen, g.viewWidth(), g.height*g.scale)
}

func (g *Game) drawChunk(screen *ebiten.Image, ch *chunk.Chunk, size, zoom float64, shade float32, toScreen func(x, z float64) (float32, float32)) {
	buf, ok := ch.Surface().Buffer().(*render.EbitenBuffer)
	if !ok || buf.Image() == nil {
		return
	}
	ox, oz := ch.Coord().Origin(size)
	sx, sy := toScreen(ox, oz)
	img := buf.Image()
	k := size * zoom / float64(img.Bounds().Dx())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(float64(sx), float64(sy))
	op.ColorScale.Scale(shade, shade, shade, 1)
	screen.DrawImage(img, op)
}

func (g *Game) drawDecorations(screen *ebiten.Image, ch *chunk.Chunk, zoom float64, toScreen func(x, z float64) (float32, float32)) {
	for _, d := range ch.Decorations() {
		if d.Collected {
			continue
		}
		p := d.Node.WorldPosition()
		x, y := toScreen(float64(p.X()), float64(p.Z()))
		switch d.Kind {
		case chunk.DecorationCloud:
			vector.DrawFilledCircle(screen, x, y, float32(18*zoom), cloudColor, true)
		case chunk.DecorationOrb:
			vector.DrawFilledCircle(screen, x, y, float32(math.Max(3, 4*zoom)), orbColor, true)
		}
	}
}

func (g *Game) drawAircraft(screen *ebiten.Image, toScreen func(x, z float64) (float32, float32)) {
	a := g.scene.Aircraft
	if !a.Visible() {
		return
	}
	p := a.Position()
	x, y := toScreen(p.X(), p.Z())
	f := a.Forward()
	span := float32(8 * math.Cos(a.Roll()))
	nx, ny := x+float32(f.X()*14), y+float32(f.Z()*14)
	lx, ly := x-float32(f.Z())*span, y+float32(f.X())*span
	rx, ry := x+float32(f.Z())*span, y-float32(f.X())*span
	vector.StrokeLine(screen, lx, ly, rx, ry, 3, planeColor, true)
	vector.StrokeLine(screen, x, y, nx, ny, 3, planeColor, true)
	vector.DrawFilledCircle(screen, x, y, 3, planeColor, true)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + hudWidth, g.height * g.scale
}

// Close releases the scene's chunks.
func (g *Game) Close() error {
	if err := g.scene.Close(); err != nil {
		return errors.Join(errors.New("app: close scene"), err)
	}
	return nil
}
