package color

import (
	"fmt"
	"math"
)

// epsilon is the float64 machine epsilon. Channel spreads and maxima below it
// are treated as zero when deriving hue and saturation.
const epsilon = 2.220446049250313e-16

// HSV is a color in hue/saturation/value form. H is in degrees in [0, 360),
// S and V are in [0, 1]. A is carried through unchanged.
type HSV struct {
	H, S, V, A float64
}

// RGBToHSV converts an RGBA color into HSV. The hue channel is chosen by
// comparing the maximum against R, then G, then B, so ties resolve in that
// order. Achromatic colors get a hue of 0. Results for non-finite input are
// unspecified.
func RGBToHSV(c Color) HSV {
	minC := math.Min(c.R, math.Min(c.G, c.B))
	maxC := math.Max(c.R, math.Max(c.G, c.B))
	delta := maxC - minC

	var h float64
	if delta > epsilon {
		switch maxC {
		case c.R:
			h = math.Mod(60*(c.G-c.B)/delta+360, 360)
		case c.G:
			h = 60*(c.B-c.R)/delta + 120
		case c.B:
			h = 60*(c.R-c.G)/delta + 240
		}
	}

	var s float64
	if maxC >= epsilon {
		s = 1 - minC/maxC
	}

	return HSV{H: h, S: s, V: maxC, A: c.A}
}

// HSVToRGB converts an HSV color back to RGBA. Finite hues outside [0, 360)
// wrap around the color wheel. A NaN or infinite hue yields
// ErrInvalidArgument.
func HSVToRGB(hsv HSV) (Color, error) {
	if math.IsNaN(hsv.H) || math.IsInf(hsv.H, 0) {
		return Color{}, fmt.Errorf("hue %v: %w", hsv.H, ErrInvalidArgument)
	}

	h := math.Mod(hsv.H, 360)
	if h < 0 {
		h += 360
	}
	h /= 60
	sector := math.Floor(h)
	f := h - sector

	v, s := hsv.V, hsv.S
	x := v * (1 - s)
	y := v * (1 - f*s)
	z := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, z, x
	case 1:
		r, g, b = y, v, x
	case 2:
		r, g, b = x, v, z
	case 3:
		r, g, b = x, y, v
	case 4:
		r, g, b = z, x, v
	default:
		r, g, b = v, x, y
	}
	return Color{R: r, G: g, B: b, A: hsv.A}, nil
}

// Darken reduces the HSV value of c by the given fraction of itself.
// The resulting value never drops below zero.
func Darken(c Color, percent float64) (Color, error) {
	hsv := RGBToHSV(c)
	hsv.V -= hsv.V * percent
	if hsv.V < 0 {
		hsv.V = 0
	}
	return HSVToRGB(hsv)
}

// Lighten increases the HSV value of c by the given fraction of itself.
// When the value overflows 1 the excess is taken out of the saturation
// instead, which moves the color toward white.
func Lighten(c Color, percent float64) (Color, error) {
	hsv := RGBToHSV(c)
	hsv.V += hsv.V * percent
	if hsv.V > 1 {
		hsv.S -= hsv.V - 1
		if hsv.S < 0 {
			hsv.S = 0
		}
		hsv.V = 1
	}
	return HSVToRGB(hsv)
}
