package graphics

import "math"

type segmentOp int

const (
	opMoveTo segmentOp = iota
	opLineTo
	opCubicTo
	opClose
)

// segment is a path element in device coordinates. Only opCubicTo uses
// all three points; the end point is always pts[len-1] of the used set.
type segment struct {
	op  segmentOp
	pts [3]Vector2
}

// path accumulates device-space geometry. Points are transformed by the
// CTM in effect when they are added, so later transformations do not move
// existing geometry.
type path struct {
	segs       []segment
	current    Vector2
	start      Vector2
	hasCurrent bool
}

func (p *path) clear() {
	p.segs = p.segs[:0]
	p.hasCurrent = false
}

func (p *path) clone() path {
	out := *p
	out.segs = append([]segment(nil), p.segs...)
	return out
}

func (p *path) empty() bool {
	return len(p.segs) == 0
}

func (p *path) moveTo(pt Vector2) {
	p.segs = append(p.segs, segment{op: opMoveTo, pts: [3]Vector2{pt}})
	p.current, p.start, p.hasCurrent = pt, pt, true
}

func (p *path) lineTo(pt Vector2) {
	if !p.hasCurrent {
		p.moveTo(pt)
		return
	}
	p.segs = append(p.segs, segment{op: opLineTo, pts: [3]Vector2{pt}})
	p.current = pt
}

func (p *path) cubicTo(c1, c2, pt Vector2) {
	if !p.hasCurrent {
		p.moveTo(c1)
	}
	p.segs = append(p.segs, segment{op: opCubicTo, pts: [3]Vector2{c1, c2, pt}})
	p.current = pt
}

func (p *path) closePath() {
	if !p.hasCurrent {
		return
	}
	p.segs = append(p.segs, segment{op: opClose})
	p.current = p.start
}

// bounds returns the device-space bounding box of all control points.
func (p *path) bounds() (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range p.segs {
		n := 1
		if s.op == opCubicTo {
			n = 3
		} else if s.op == opClose {
			continue
		}
		for _, pt := range s.pts[:n] {
			minX, minY = math.Min(minX, pt.X), math.Min(minY, pt.Y)
			maxX, maxY = math.Max(maxX, pt.X), math.Max(maxY, pt.Y)
		}
		ok = true
	}
	return minX, minY, maxX, maxY, ok
}

// arcSegments returns cubic Bézier control points approximating the arc of
// radius r around (cx, cy) from angle a1 to a2, in user space. Each piece
// spans at most a quarter turn. The first returned point is the arc start.
func arcSegments(cx, cy, r, a1, a2 float64) (start Vector2, curves [][3]Vector2) {
	start = Vector2{cx + r*math.Cos(a1), cy + r*math.Sin(a1)}
	sweep := a2 - a1
	if sweep == 0 || r == 0 {
		return start, nil
	}
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	a := a1
	for i := 0; i < n; i++ {
		b := a + step
		sa, ca := math.Sincos(a)
		sb, cb := math.Sincos(b)
		curves = append(curves, [3]Vector2{
			{cx + r*(ca-k*sa), cy + r*(sa+k*ca)},
			{cx + r*(cb+k*sb), cy + r*(sb-k*cb)},
			{cx + r*cb, cy + r*sb},
		})
		a = b
	}
	return start, curves
}

// normalizeArc adjusts a2 so that a positive arc sweeps from a1 to a2
// increasing, adding full turns as needed, and caps the sweep so huge
// angle differences do not produce thousands of segments.
func normalizeArc(a1, a2 float64, negative bool) float64 {
	const turn = 2 * math.Pi
	if !negative {
		if a2 < a1 {
			a2 = a1 + math.Mod(a2-a1, turn)
			if a2 < a1 {
				a2 += turn
			}
		}
		if a2-a1 > 4*turn {
			a2 = a1 + math.Mod(a2-a1, turn) + 4*turn
		}
		return a2
	}
	if a2 > a1 {
		a2 = a1 - math.Mod(a1-a2, turn)
		if a2 > a1 {
			a2 -= turn
		}
	}
	if a1-a2 > 4*turn {
		a2 = a1 - math.Mod(a1-a2, turn) - 4*turn
	}
	return a2
}
