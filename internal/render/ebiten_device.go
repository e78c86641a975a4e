//go:build ebiten

package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// EbitenDevice rasterizes terrain meshes top-down into offscreen images.
type EbitenDevice struct {
	palette []color.RGBA
	texSize int
	ambient float32
}

// NewEbitenDevice returns a device producing texSize×texSize chunk images.
func NewEbitenDevice(palette []color.RGBA, texSize int) *EbitenDevice {
	if texSize <= 0 {
		texSize = 128
	}
	return &EbitenDevice{palette: palette, texSize: texSize, ambient: 0.35}
}

// NewBuffer allocates the chunk image and draws the mesh into it.
func (d *EbitenDevice) NewBuffer(m *Mesh) (Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.VertexCount() > math.MaxUint16 {
		return nil, fmt.Errorf("render: %d vertices exceed 16-bit indices", m.VertexCount())
	}
	b := &EbitenBuffer{dev: d, resolution: m.Resolution}
	b.img = ebiten.NewImage(d.texSize, d.texSize)
	b.indices = make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		b.indices[i] = uint16(idx)
	}
	b.draw(m)
	return b, nil
}

// EbitenBuffer owns one chunk image plus its vertex list.
type EbitenBuffer struct {
	dev        *EbitenDevice
	resolution int
	img        *ebiten.Image
	vertices   []ebiten.Vertex
	indices    []uint16
}

// Image returns the rendered chunk, or nil after Release.
func (b *EbitenBuffer) Image() *ebiten.Image { return b.img }

func (b *EbitenBuffer) draw(m *Mesh) {
	n := m.VertexCount()
	if len(b.vertices) != n {
		b.vertices = make([]ebiten.Vertex, n)
	}
	extent := m.Positions[n-1].X()
	if extent <= 0 {
		extent = 1
	}
	scale := float32(b.dev.texSize) / extent
	for i := 0; i < n; i++ {
		p := m.Positions[i]
		c := Shade(PaletteColor(b.dev.palette, m.Tags[i]), m.Normals[i], SunDirection, b.dev.ambient)
		b.vertices[i] = ebiten.Vertex{
			DstX:   p.X() * scale,
			DstY:   p.Z() * scale,
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(c.R) / 255,
			ColorG: float32(c.G) / 255,
			ColorB: float32(c.B) / 255,
			ColorA: 1,
		}
	}
	b.img.Clear()
	b.img.DrawTriangles(b.vertices, b.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{})
}

// Update redraws the chunk image from new vertex attributes.
func (b *EbitenBuffer) Update(m *Mesh) error {
	if b.img == nil {
		return ErrReleased
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Resolution != b.resolution {
		return fmt.Errorf("render: update changes resolution %d -> %d", b.resolution, m.Resolution)
	}
	b.draw(m)
	return nil
}

// Release disposes the chunk image.
func (b *EbitenBuffer) Release() error {
	if b.img == nil {
		return ErrReleased
	}
	b.img.Dispose()
	b.img = nil
	b.vertices = nil
	return nil
}
