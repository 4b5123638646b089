package graphics

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatrixConstructors(t *testing.T) {
	tests := []struct {
		name  string
		m     Matrix
		inX   float64
		inY   float64
		wantX float64
		wantY float64
	}{
		{"identity", NewIdentityMatrix(), 3, 4, 3, 4},
		{"translate", NewTranslateMatrix(10, -5), 3, 4, 13, -1},
		{"scale", NewScaleMatrix(2, 3), 3, 4, 6, 12},
		{"rotate quarter", NewRotateMatrix(math.Pi / 2), 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.inX, tt.inY)
			if !approx(x, tt.wantX) || !approx(y, tt.wantY) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)",
					tt.inX, tt.inY, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMatrixPrependOrder(t *testing.T) {
	// Scale then translate: the translation is applied in scaled space.
	m := NewScaleMatrix(2, 2)
	m.Translate(5, 0)
	x, y := m.TransformPoint(1, 1)
	if !approx(x, 12) || !approx(y, 2) {
		t.Errorf("got (%v, %v), want (12, 2)", x, y)
	}

	r := NewTranslateMatrix(10, 0)
	r.Rotate(math.Pi / 2)
	x, y = r.TransformPoint(1, 0)
	if !approx(x, 10) || !approx(y, 1) {
		t.Errorf("rotate got (%v, %v), want (10, 1)", x, y)
	}
}

func TestMultiply(t *testing.T) {
	a := NewScaleMatrix(2, 2)
	b := NewTranslateMatrix(1, 1)

	ab := Multiply(a, b)
	x, y := ab.TransformPoint(1, 1)
	if !approx(x, 3) || !approx(y, 3) {
		t.Errorf("Multiply(scale, translate) maps (1,1) to (%v, %v), want (3, 3)", x, y)
	}

	ba := Multiply(b, a)
	x, y = ba.TransformPoint(1, 1)
	if !approx(x, 4) || !approx(y, 4) {
		t.Errorf("Multiply(translate, scale) maps (1,1) to (%v, %v), want (4, 4)", x, y)
	}
}

func TestInvert(t *testing.T) {
	m := NewTranslateMatrix(3, 4)
	m.Scale(2, 5)
	m.Rotate(0.3)
	orig := m
	if err := m.Invert(); err != nil {
		t.Fatalf("Invert() error = %v", err)
	}
	id := Multiply(orig, m)
	for _, v := range [][2]float64{{id.XX, 1}, {id.YY, 1}, {id.XY, 0}, {id.YX, 0}, {id.X0, 0}, {id.Y0, 0}} {
		if !approx(v[0], v[1]) {
			t.Fatalf("m * inverse = %v, want identity", id)
		}
	}
}

func TestInvertSingular(t *testing.T) {
	tests := []Matrix{
		NewScaleMatrix(0, 1),
		{XX: 1, YX: 2, XY: 2, YY: 4},
		{XX: math.Inf(1), YY: 1},
		{XX: 1, YY: 1, X0: math.NaN()},
	}
	for _, m := range tests {
		before := m
		err := m.Invert()
		if !errors.Is(err, ErrMatrixNotInvertible) {
			t.Errorf("Invert(%v) error = %v, want ErrMatrixNotInvertible", before, err)
		}
		if m != before && !math.IsNaN(before.X0) {
			t.Errorf("Invert modified matrix on failure: %v -> %v", before, m)
		}
	}
}

func TestScaleFactor(t *testing.T) {
	if got := NewScaleMatrix(2, 8).ScaleFactor(); !approx(got, 4) {
		t.Errorf("ScaleFactor() = %v, want 4", got)
	}
	if got := NewRotateMatrix(1).ScaleFactor(); !approx(got, 1) {
		t.Errorf("rotation ScaleFactor() = %v, want 1", got)
	}
}
