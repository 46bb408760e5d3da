// Package colorscale maps a 0-100 score onto a red, yellow, green ramp.
package colorscale

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Alpha is applied to every scale color so gridlines show through bars.
const Alpha = 0.9

// Color is an 8-bit RGB triple with the fixed scale alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	Low  = Color{R: 229, G: 15, B: 15, A: Alpha}
	Mid  = Color{R: 253, G: 216, B: 53, A: Alpha}
	High = Color{R: 67, G: 160, B: 71, A: Alpha}
)

// For returns the color of score. Non-finite input counts as 0 and the
// result is clamped to [0,100] before interpolation.
func For(score float64) Color {
	v := Clamp(score)
	if v <= 50 {
		return lerp(Low, Mid, v/50)
	}
	return lerp(Mid, High, (v-50)/50)
}

// Clamp coerces score into [0,100].
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(100, math.Max(0, score))
}

// Legend returns the anchor colors keyed by the score they represent.
func Legend() []struct {
	Score int
	Color Color
} {
	return []struct {
		Score int
		Color Color
	}{{0, Low}, {50, Mid}, {100, High}}
}

func lerp(a, b Color, t float64) Color {
	return Color{
		R: channel(a.R, b.R, t),
		G: channel(a.G, b.G, t),
		B: channel(a.B, b.B, t),
		A: Alpha,
	}
}

func channel(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return uint8(math.Floor(v + 0.5))
}

// CSS formats the color as an rgba() expression.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.R, c.G, c.B, c.A)
}

// Hex returns the opaque #rrggbb form, used for terminal styles.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// NRGBA converts to a non-premultiplied image color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}
