package color

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func colorNear(a, b Color) bool {
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want HSV
	}{
		{"red", Color{1, 0, 0, 1}, HSV{0, 1, 1, 1}},
		{"green", Color{0, 1, 0, 1}, HSV{120, 1, 1, 1}},
		{"blue", Color{0, 0, 1, 1}, HSV{240, 1, 1, 1}},
		{"gray", Color{0.5, 0.5, 0.5, 1}, HSV{0, 0, 0.5, 1}},
		{"black", Color{0, 0, 0, 1}, HSV{0, 0, 0, 1}},
		{"white", Color{1, 1, 1, 0.25}, HSV{0, 0, 1, 0.25}},
		{"yellow ties to red", Color{1, 1, 0, 1}, HSV{60, 1, 1, 1}},
		{"magenta ties to red", Color{1, 0, 1, 1}, HSV{300, 1, 1, 1}},
		{"cyan ties to green", Color{0, 1, 1, 1}, HSV{180, 1, 1, 1}},
		{"steel", Color{0.2, 0.4, 0.6, 0.5}, HSV{210, 2.0 / 3.0, 0.6, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSV(tt.in)
			if !near(got.H, tt.want.H) || !near(got.S, tt.want.S) ||
				!near(got.V, tt.want.V) || got.A != tt.want.A {
				t.Errorf("RGBToHSV(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name string
		in   HSV
		want Color
	}{
		{"red", HSV{0, 1, 1, 1}, Color{1, 0, 0, 1}},
		{"green", HSV{120, 1, 1, 1}, Color{0, 1, 0, 1}},
		{"blue", HSV{240, 1, 1, 1}, Color{0, 0, 1, 1}},
		{"gray", HSV{0, 0, 0.5, 0.3}, Color{0.5, 0.5, 0.5, 0.3}},
		{"sector 3", HSV{210, 2.0 / 3.0, 0.6, 1}, Color{0.2, 0.4, 0.6, 1}},
		{"negative hue wraps", HSV{-120, 1, 1, 1}, Color{0, 0, 1, 1}},
		{"full turn wraps", HSV{720, 1, 1, 1}, Color{1, 0, 0, 1}},
		{"360 is red", HSV{360, 1, 1, 1}, Color{1, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HSVToRGB(tt.in)
			if err != nil {
				t.Fatalf("HSVToRGB(%+v) error = %v", tt.in, err)
			}
			if !colorNear(got, tt.want) {
				t.Errorf("HSVToRGB(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHSVToRGBLastSector(t *testing.T) {
	got, err := HSVToRGB(HSV{H: 359.999, S: 1, V: 1, A: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.R != 1 || got.G != 0 {
		t.Errorf("r, g = %v, %v; want 1, 0", got.R, got.G)
	}
	if got.B <= 0 || got.B > 1e-4 {
		t.Errorf("b = %v, want a small positive value", got.B)
	}
}

func TestHSVToRGBInvalidHue(t *testing.T) {
	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := HSVToRGB(HSV{H: h, S: 1, V: 1, A: 1})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("HSVToRGB(h=%v) error = %v, want ErrInvalidArgument", h, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		c := Color{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
		got, err := HSVToRGB(RGBToHSV(c))
		if err != nil {
			t.Fatalf("round trip of %v: %v", c, err)
		}
		if !colorNear(got, c) {
			t.Fatalf("round trip of %v = %v", c, got)
		}
		if got.A != c.A {
			t.Fatalf("alpha changed: %v -> %v", c.A, got.A)
		}
	}
}

func TestDarken(t *testing.T) {
	tests := []struct {
		name    string
		in      Color
		percent float64
		want    Color
	}{
		{"white half", Color{1, 1, 1, 1}, 0.5, Color{0.5, 0.5, 0.5, 1}},
		{"red quarter", Color{1, 0, 0, 0.5}, 0.25, Color{0.75, 0, 0, 0.5}},
		{"zero percent", Color{0.2, 0.4, 0.6, 1}, 0, Color{0.2, 0.4, 0.6, 1}},
		{"full", Color{0.2, 0.4, 0.6, 1}, 1, Color{0, 0, 0, 1}},
		{"beyond full clamps", Color{0.2, 0.4, 0.6, 1}, 3, Color{0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Darken(tt.in, tt.percent)
			if err != nil {
				t.Fatal(err)
			}
			if !colorNear(got, tt.want) {
				t.Errorf("Darken(%v, %v) = %v, want %v", tt.in, tt.percent, got, tt.want)
			}
		})
	}
}

func TestLighten(t *testing.T) {
	tests := []struct {
		name    string
		in      Color
		percent float64
		want    Color
	}{
		{"gray", Color{0.4, 0.4, 0.4, 1}, 0.5, Color{0.6, 0.6, 0.6, 1}},
		{"dark red", Color{0.5, 0, 0, 1}, 0.5, Color{0.75, 0, 0, 1}},
		{"overflow desaturates", Color{1, 0, 0, 1}, 0.5, Color{1, 0.5, 0.5, 1}},
		{"pink overflow", Color{1, 0.5, 0.5, 0.7}, 0.2, Color{1, 0.7, 0.7, 0.7}},
		{"saturation floors at zero", Color{1, 0, 0, 1}, 2, Color{1, 1, 1, 1}},
		{"black stays black", Color{0, 0, 0, 1}, 1, Color{0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lighten(tt.in, tt.percent)
			if err != nil {
				t.Fatal(err)
			}
			if !colorNear(got, tt.want) {
				t.Errorf("Lighten(%v, %v) = %v, want %v", tt.in, tt.percent, got, tt.want)
			}
		})
	}
}
