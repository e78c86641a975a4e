package terrain

import (
	"fmt"
	"image/color"
)

// Material tags a terrain sample with the surface it should render as.
type Material uint8

const (
	MaterialNone Material = iota
	MaterialWater
	MaterialSand
	MaterialGrass
	MaterialForest
	MaterialRock
	MaterialSnow
	MaterialDust
	materialCount
)

var materialNames = [materialCount]string{
	MaterialNone:   "none",
	MaterialWater:  "water",
	MaterialSand:   "sand",
	MaterialGrass:  "grass",
	MaterialForest: "forest",
	MaterialRock:   "rock",
	MaterialSnow:   "snow",
	MaterialDust:   "dust",
}

func (m Material) String() string {
	if m < materialCount {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// ParseMaterial resolves a material by name.
func ParseMaterial(name string) (Material, error) {
	for i, n := range materialNames {
		if n == name {
			return Material(i), nil
		}
	}
	return MaterialNone, fmt.Errorf("terrain: unknown material %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Material) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Material) UnmarshalText(b []byte) error {
	parsed, err := ParseMaterial(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var materialPalette = []color.RGBA{
	MaterialNone:   {R: 0, G: 0, B: 0, A: 255},
	MaterialWater:  {R: 52, G: 110, B: 170, A: 255},
	MaterialSand:   {R: 214, G: 196, B: 140, A: 255},
	MaterialGrass:  {R: 96, G: 160, B: 72, A: 255},
	MaterialForest: {R: 48, G: 108, B: 56, A: 255},
	MaterialRock:   {R: 128, G: 122, B: 116, A: 255},
	MaterialSnow:   {R: 240, G: 244, B: 250, A: 255},
	MaterialDust:   {R: 150, G: 120, B: 170, A: 255},
}

// Palette returns the render colour for every material, indexed by tag.
func Palette() []color.RGBA {
	return append([]color.RGBA(nil), materialPalette...)
}

// isLand reports whether slope or biome overrides may replace m.
func (m Material) isLand() bool {
	return m == MaterialSand || m == MaterialGrass || m == MaterialForest
}
