package intensity

import "strings"

// Palette renders canonical color tokens into concrete presentation values.
type Palette struct {
	Name   string
	values map[Color]string
}

// Built-in palettes.
var (
	// Tailwind renders tokens as background utility classes.
	Tailwind = Palette{
		Name: "tailwind",
		values: map[Color]string{
			ColorRed:    "bg-red-500",
			ColorOrange: "bg-orange-500",
			ColorYellow: "bg-yellow-500",
			ColorGreen:  "bg-green-500",
		},
	}

	// Hex renders tokens as CSS hex colors for SVG and map fills.
	Hex = Palette{
		Name: "hex",
		values: map[Color]string{
			ColorRed:    "#ef4444",
			ColorOrange: "#f97316",
			ColorYellow: "#eab308",
			ColorGreen:  "#22c55e",
		},
	}
)

// PaletteByName returns the named palette, falling back to Tailwind.
func PaletteByName(name string) Palette {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Hex.Name:
		return Hex
	default:
		return Tailwind
	}
}

// Render returns the palette value for a token. Unknown tokens render as the
// raw token string.
func (p Palette) Render(c Color) string {
	if v, ok := p.values[c]; ok {
		return v
	}
	return string(c)
}
