package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection is the default light used for terrain shading.
var SunDirection = mgl32.Vec3{-0.4, 1, -0.3}.Normalize()

// Shade applies Lambert lighting with an ambient floor to a base colour.
func Shade(base color.RGBA, normal, light mgl32.Vec3, ambient float32) color.RGBA {
	lit := normal.Dot(light)
	if lit < 0 {
		lit = 0
	}
	k := ambient + (1-ambient)*lit
	if k > 1 {
		k = 1
	}
	return color.RGBA{
		R: uint8(float32(base.R)*k + 0.5),
		G: uint8(float32(base.G)*k + 0.5),
		B: uint8(float32(base.B)*k + 0.5),
		A: base.A,
	}
}

// Blend mixes overlay into base with the given weight in [0, 1].
func Blend(base, overlay color.RGBA, overlayWeight float64) color.RGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5)
	}
	return color.RGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}

// PaletteColor returns palette[tag], clamping out-of-range tags to the last entry.
func PaletteColor(palette []color.RGBA, tag uint8) color.RGBA {
	if len(palette) == 0 {
		return color.RGBA{}
	}
	idx := int(tag)
	if idx >= len(palette) {
		idx = len(palette) - 1
	}
	return palette[idx]
}

// FillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func FillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	for i, c := range cells {
		base := i * 4
		col := PaletteColor(palette, c)
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
