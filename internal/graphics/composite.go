package graphics

import "math"

// blend computes op(src, dst) on premultiplied components. The result
// is not yet weighted by coverage.
func blend(op Operator, sr, sg, sb, sa, dr, dg, db, da float64) (r, g, b, a float64) {
	switch op {
	case OperatorClear:
		return 0, 0, 0, 0
	case OperatorSource:
		return sr, sg, sb, sa
	case OperatorOver:
		k := 1 - sa
		return sr + dr*k, sg + dg*k, sb + db*k, sa + da*k
	case OperatorIn:
		return sr * da, sg * da, sb * da, sa * da
	case OperatorOut:
		k := 1 - da
		return sr * k, sg * k, sb * k, sa * k
	case OperatorAtop:
		k := 1 - sa
		return sr*da + dr*k, sg*da + dg*k, sb*da + db*k, da
	case OperatorDest:
		return dr, dg, db, da
	case OperatorDestOver:
		k := 1 - da
		return sr*k + dr, sg*k + dg, sb*k + db, sa*k + da
	case OperatorDestIn:
		return dr * sa, dg * sa, db * sa, da * sa
	case OperatorDestOut:
		k := 1 - sa
		return dr * k, dg * k, db * k, da * k
	case OperatorDestAtop:
		k := 1 - da
		return sr*k + dr*sa, sg*k + dg*sa, sb*k + db*sa, sa
	case OperatorXor:
		ks, kd := 1-da, 1-sa
		return sr*ks + dr*kd, sg*ks + dg*kd, sb*ks + db*kd, sa*ks + da*kd
	case OperatorAdd:
		return math.Min(1, sr+dr), math.Min(1, sg+dg), math.Min(1, sb+db), math.Min(1, sa+da)
	case OperatorSaturate:
		f := 1.0
		if sa > 0 {
			f = math.Min(1, (1-da)/sa)
		}
		return math.Min(1, sr*f+dr), math.Min(1, sg*f+dg), math.Min(1, sb*f+db), math.Min(1, sa*f+da)
	case OperatorMultiply, OperatorScreen, OperatorOverlay, OperatorDarken, OperatorLighten:
		a = sa + da - sa*da
		r = separable(op, sr, sa, dr, da)
		g = separable(op, sg, sa, dg, da)
		b = separable(op, sb, sa, db, da)
		return r, g, b, a
	}
	return dr, dg, db, da
}

// separable applies a separable blend mode to one premultiplied channel:
// (1-da)*s + (1-sa)*d + sa*da*B(cs, cd).
func separable(op Operator, s, sa, d, da float64) float64 {
	var cs, cd float64
	if sa > 0 {
		cs = s / sa
	}
	if da > 0 {
		cd = d / da
	}
	var mixed float64
	switch op {
	case OperatorMultiply:
		mixed = cs * cd
	case OperatorScreen:
		mixed = cs + cd - cs*cd
	case OperatorOverlay:
		if cd <= 0.5 {
			mixed = 2 * cs * cd
		} else {
			mixed = 1 - 2*(1-cs)*(1-cd)
		}
	case OperatorDarken:
		mixed = math.Min(cs, cd)
	case OperatorLighten:
		mixed = math.Max(cs, cd)
	}
	return (1-da)*s + (1-sa)*d + sa*da*mixed
}

func to8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
