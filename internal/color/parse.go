package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by Parse for strings that are not a
// recognized color notation.
var ErrInvalidColor = errors.New("invalid color")

// Named maps CSS color names to colors.
var Named = map[string]Color{
	"black":       rgb8(0, 0, 0),
	"white":       rgb8(255, 255, 255),
	"red":         rgb8(255, 0, 0),
	"green":       rgb8(0, 128, 0),
	"blue":        rgb8(0, 0, 255),
	"yellow":      rgb8(255, 255, 0),
	"cyan":        rgb8(0, 255, 255),
	"magenta":     rgb8(255, 0, 255),
	"gray":        rgb8(128, 128, 128),
	"grey":        rgb8(128, 128, 128),
	"silver":      rgb8(192, 192, 192),
	"maroon":      rgb8(128, 0, 0),
	"olive":       rgb8(128, 128, 0),
	"lime":        rgb8(0, 255, 0),
	"aqua":        rgb8(0, 255, 255),
	"teal":        rgb8(0, 128, 128),
	"navy":        rgb8(0, 0, 128),
	"fuchsia":     rgb8(255, 0, 255),
	"purple":      rgb8(128, 0, 128),
	"orange":      rgb8(255, 165, 0),
	"pink":        rgb8(255, 192, 203),
	"brown":       rgb8(165, 42, 42),
	"coral":       rgb8(255, 127, 80),
	"gold":        rgb8(255, 215, 0),
	"indigo":      rgb8(75, 0, 130),
	"violet":      rgb8(238, 130, 238),
	"turquoise":   rgb8(64, 224, 208),
	"salmon":      rgb8(250, 128, 114),
	"khaki":       rgb8(240, 230, 140),
	"lavender":    rgb8(230, 230, 250),
	"beige":       rgb8(245, 245, 220),
	"ivory":       rgb8(255, 255, 240),
	"chocolate":   rgb8(210, 105, 30),
	"crimson":     rgb8(220, 20, 60),
	"darkblue":    rgb8(0, 0, 139),
	"darkgreen":   rgb8(0, 100, 0),
	"darkred":     rgb8(139, 0, 0),
	"darkorange":  rgb8(255, 140, 0),
	"lightblue":   rgb8(173, 216, 230),
	"lightgreen":  rgb8(144, 238, 144),
	"lightgray":   rgb8(211, 211, 211),
	"lightgrey":   rgb8(211, 211, 211),
	"darkgray":    rgb8(169, 169, 169),
	"darkgrey":    rgb8(169, 169, 169),
	"transparent": Transparent,
}

func rgb8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// Parse parses a color string. Supported notations:
//   - named colors: "red", "navy", "transparent"
//   - hex: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the # is optional)
//   - functional: "rgb(255, 0, 0)", "rgba(255, 0, 0, 0.5)"
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty string: %w", ErrInvalidColor)
	}
	if c, ok := Named[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") || isHex(s) {
		return parseHex(strings.TrimPrefix(s, "#"))
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[5:len(s)-1], 4)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[4:len(s)-1], 3)
	}
	return Color{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
}

func isHex(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func parseHex(s string) (Color, error) {
	var digits []string
	switch len(s) {
	case 3, 4:
		for i := range s {
			digits = append(digits, s[i:i+1]+s[i:i+1])
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			digits = append(digits, s[i:i+2])
		}
	default:
		return Color{}, fmt.Errorf("hex length %d: %w", len(s), ErrInvalidColor)
	}

	comps := [4]float64{0, 0, 0, 1}
	for i, d := range digits {
		v, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("hex component %q: %w", d, ErrInvalidColor)
		}
		comps[i] = float64(v) / 255
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// parseFunc parses the argument list of rgb() or rgba(). Color channels are
// integers in 0..255. Alpha is either a fraction containing a decimal point
// or an integer in 0..255.
func parseFunc(args string, n int) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return Color{}, fmt.Errorf("expected %d values, got %d: %w", n, len(parts), ErrInvalidColor)
	}

	comps := [4]float64{0, 0, 0, 1}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 3 && strings.Contains(p, ".") {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return Color{}, fmt.Errorf("alpha %q: %w", p, ErrInvalidColor)
			}
			comps[i] = clamp01(v)
			continue
		}
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("component %q: %w", p, ErrInvalidColor)
		}
		comps[i] = float64(v) / 255
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}
