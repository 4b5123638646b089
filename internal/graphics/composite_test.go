package graphics

import "testing"

func TestBlend(t *testing.T) {
	// Half-transparent red source over opaque blue destination.
	const sr, sg, sb, sa = 0.5, 0, 0, 0.5
	const dr, dg, db, da = 0, 0, 1, 1

	tests := []struct {
		op   Operator
		want [4]float64
	}{
		{OperatorClear, [4]float64{0, 0, 0, 0}},
		{OperatorSource, [4]float64{0.5, 0, 0, 0.5}},
		{OperatorOver, [4]float64{0.5, 0, 0.5, 1}},
		{OperatorIn, [4]float64{0.5, 0, 0, 0.5}},
		{OperatorOut, [4]float64{0, 0, 0, 0}},
		{OperatorAtop, [4]float64{0.5, 0, 0.5, 1}},
		{OperatorDest, [4]float64{0, 0, 1, 1}},
		{OperatorDestOver, [4]float64{0, 0, 1, 1}},
		{OperatorDestIn, [4]float64{0, 0, 0.5, 0.5}},
		{OperatorDestOut, [4]float64{0, 0, 0.5, 0.5}},
		{OperatorDestAtop, [4]float64{0, 0, 0.5, 0.5}},
		{OperatorXor, [4]float64{0, 0, 0.5, 0.5}},
		{OperatorAdd, [4]float64{0.5, 0, 1, 1}},
		{OperatorSaturate, [4]float64{0, 0, 1, 1}},
		{OperatorMultiply, [4]float64{0, 0, 0.5, 1}},
		{OperatorScreen, [4]float64{0.5, 0, 1, 1}},
		{OperatorDarken, [4]float64{0, 0, 0.5, 1}},
		{OperatorLighten, [4]float64{0.5, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			r, g, b, a := blend(tt.op, sr, sg, sb, sa, dr, dg, db, da)
			got := [4]float64{r, g, b, a}
			for i := range got {
				if !approx(got[i], tt.want[i]) {
					t.Fatalf("blend(%v) = %v, want %v", tt.op, got, tt.want)
				}
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	// Opaque colors: overlay is multiply below mid gray and screen above.
	r, _, _, _ := blend(OperatorOverlay, 0.5, 0, 0, 1, 0.25, 0, 0, 1)
	if !approx(r, 0.25) {
		t.Errorf("dark overlay = %v, want 0.25", r)
	}
	r, _, _, _ = blend(OperatorOverlay, 0.5, 0, 0, 1, 0.75, 0, 0, 1)
	if !approx(r, 0.75) {
		t.Errorf("light overlay = %v, want 0.75", r)
	}
}

func TestTo8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-1, 0}, {0, 0}, {0.5, 128}, {1, 255}, {3, 255},
	}
	for _, tt := range tests {
		if got := to8(tt.in); got != tt.want {
			t.Errorf("to8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
