package color

import (
	"errors"
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"named", "red", color.NRGBA{255, 0, 0, 255}, false},
		{"named mixed case", "  Navy ", color.NRGBA{0, 0, 128, 255}, false},
		{"transparent", "transparent", color.NRGBA{0, 0, 0, 0}, false},
		{"hex6", "#1A2B3C", color.NRGBA{26, 43, 60, 255}, false},
		{"hex6 without hash", "ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"hex8", "#FF000080", color.NRGBA{255, 0, 0, 128}, false},
		{"hex3", "#ABC", color.NRGBA{170, 187, 204, 255}, false},
		{"hex4", "#F008", color.NRGBA{255, 0, 0, 136}, false},
		{"rgb", "rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, false},
		{"rgba fraction", "RGBA(255, 0, 0, 0.5)", color.NRGBA{255, 0, 0, 128}, false},
		{"rgba integer", "rgba(0, 0, 255, 51)", color.NRGBA{0, 0, 255, 51}, false},
		{"empty", "", color.NRGBA{}, true},
		{"unknown name", "notacolor", color.NRGBA{}, true},
		{"bad hex", "#GG0000", color.NRGBA{}, true},
		{"bad length", "#12345", color.NRGBA{}, true},
		{"rgb arity", "rgb(1, 2)", color.NRGBA{}, true},
		{"rgb overflow", "rgb(256, 0, 0)", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidColor", tt.input, err)
				}
				return
			}
			if n := got.NRGBA(); n != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, n, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   Color
		want string
	}{
		{Color{1, 0, 0, 1}, "#ff0000"},
		{Color{0, 0, 1, 0.5}, "#0000ff80"},
		{Color{2, -1, 0.5, 1}, "#ff0080"},
	}
	for _, tt := range tests {
		if got := tt.in.Hex(); got != tt.want {
			t.Errorf("%v.Hex() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPremultiplied(t *testing.T) {
	r, g, b, a := Color{1, 0.5, 0, 0.5}.Premultiplied()
	if r != 0.5 || g != 0.25 || b != 0 || a != 0.5 {
		t.Errorf("Premultiplied() = %v %v %v %v", r, g, b, a)
	}
	back := FromPremultiplied(r, g, b, a)
	if back != (Color{1, 0.5, 0, 0.5}) {
		t.Errorf("FromPremultiplied() = %v", back)
	}
	if FromPremultiplied(0.3, 0.3, 0.3, 0) != Transparent {
		t.Error("zero alpha should yield Transparent")
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{255, 0, 51, 255})
	if !colorNear(got, Color{1, 0, 0.2, 1}) {
		t.Errorf("FromColor() = %v", got)
	}
}
