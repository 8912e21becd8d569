package surface

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors used by the scenes.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// Hex parses a "#rrggbb" or "#rgb" color string into an opaque color.
func Hex(s string) (Color, error) {
	hex := expandHex(s)
	if len(hex) != 7 {
		return Color{}, fmt.Errorf("surface: invalid color %q", s)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("surface: invalid color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// MustHex is like Hex but panics if the color can't be parsed.
// It is intended for package level palette definitions.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA builds a color from 8 bit channels and a [0, 1] alpha value.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: clamp01(a),
	}
}

// WithAlpha returns a copy of the color with the alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// RGB255 returns the color channels quantized to 8 bits.
func (c Color) RGB255() (r, g, b uint8) {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
}

// CSS formats the color as a CSS rgba() value, as accepted by the
// fillStyle and strokeStyle properties of a browser canvas.
func (c Color) CSS() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, formatAlpha(c.A))
}

func formatAlpha(a float64) string {
	return fmt.Sprintf("%.3g", clamp01(a))
}

// expandHex turns the short "#rgb" notation into "#rrggbb".
func expandHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
