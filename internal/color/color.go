// Package color provides the floating-point RGBA color model used by
// agraphics, conversions to and from HSV, and the brightness adjustments
// exposed to scripts as Color.darker and Color.lighter.
package color

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrInvalidArgument is returned when a conversion receives a value it cannot
// map into the target color space, such as a non-finite hue.
var ErrInvalidArgument = errors.New("invalid argument")

// Color is an RGBA color with components conventionally in [0, 1].
// Components are never clamped on construction or assignment; clamping
// happens only when the color is converted to an 8-bit representation.
type Color struct {
	R, G, B, A float64
}

// New returns a color from its four components. It mirrors the
// Color.new(r, g, b, a) script constructor.
func New(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// Premultiplied returns the color components multiplied by alpha, with every
// component clamped to [0, 1] first.
func (c Color) Premultiplied() (r, g, b, a float64) {
	a = clamp01(c.A)
	return clamp01(c.R) * a, clamp01(c.G) * a, clamp01(c.B) * a, a
}

// NRGBA converts the color to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the color as #RRGGBB, or #RRGGBBAA when it is not opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("Color(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}

// FromColor converts any image/color value into a Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// FromPremultiplied builds a color from premultiplied components.
func FromPremultiplied(r, g, b, a float64) Color {
	if a <= 0 {
		return Transparent
	}
	return Color{R: r / a, G: g / a, B: b / a, A: a}
}

// Lerp interpolates between two colors component-wise.
func Lerp(from, to Color, t float64) Color {
	return Color{
		R: from.R + (to.R-from.R)*t,
		G: from.G + (to.G-from.G)*t,
		B: from.B + (to.B-from.B)*t,
		A: from.A + (to.A-from.A)*t,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
