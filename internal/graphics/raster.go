package graphics

import (
	"fmt"

	"github.com/gogpu/gg"
)

// rasterizer turns device-space paths into per-pixel coverage. Shapes are
// drawn in opaque white onto a transparent gg pixmap with an identity
// transform, so the alpha channel of the pixmap is the coverage.
type rasterizer struct {
	pm *gg.Pixmap
	dc *gg.Context
}

func newRasterizer(width, height int) *rasterizer {
	pm := gg.NewPixmap(width, height)
	return &rasterizer{pm: pm, dc: gg.NewContextForPixmap(pm)}
}

// strokeStyle is a stroke description in device units.
type strokeStyle struct {
	width      float64
	cap        LineCap
	join       LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64
}

func (r *rasterizer) close() {
	if r.dc != nil {
		_ = r.dc.Close()
		r.dc = nil
	}
}

func (r *rasterizer) reset(p *path) {
	r.pm.Clear(gg.Transparent)
	r.dc.ClearPath()
	for _, s := range p.segs {
		switch s.op {
		case opMoveTo:
			r.dc.MoveTo(s.pts[0].X, s.pts[0].Y)
		case opLineTo:
			r.dc.LineTo(s.pts[0].X, s.pts[0].Y)
		case opCubicTo:
			r.dc.CubicTo(s.pts[0].X, s.pts[0].Y, s.pts[1].X, s.pts[1].Y, s.pts[2].X, s.pts[2].Y)
		case opClose:
			r.dc.ClosePath()
		}
	}
	r.dc.SetRGBA(1, 1, 1, 1)
}

// fill rasterizes the interior of p into dst, one coverage value per pixel.
func (r *rasterizer) fill(p *path, rule FillRule, dst []float32) error {
	r.reset(p)
	if rule == FillRuleEvenOdd {
		r.dc.SetFillRule(gg.FillRuleEvenOdd)
	} else {
		r.dc.SetFillRule(gg.FillRuleNonZero)
	}
	if err := r.dc.Fill(); err != nil {
		return fmt.Errorf("rasterize fill: %w", err)
	}
	r.readCoverage(dst)
	return nil
}

// stroke rasterizes the outline of p into dst.
func (r *rasterizer) stroke(p *path, st strokeStyle, dst []float32) error {
	r.reset(p)
	s := gg.Stroke{
		Width:      st.width,
		Cap:        ggCap(st.cap),
		Join:       ggJoin(st.join),
		MiterLimit: st.miterLimit,
	}
	if len(st.dash) > 0 {
		if d := gg.NewDash(st.dash...); d != nil {
			s.Dash = d.WithOffset(st.dashOffset)
		}
	}
	r.dc.SetStroke(s)
	if err := r.dc.Stroke(); err != nil {
		return fmt.Errorf("rasterize stroke: %w", err)
	}
	r.readCoverage(dst)
	return nil
}

func (r *rasterizer) readCoverage(dst []float32) {
	data := r.pm.Data()
	for i := range dst {
		dst[i] = float32(data[i*4+3]) / 255
	}
}

func ggCap(c LineCap) gg.LineCap {
	switch c {
	case LineCapRound:
		return gg.LineCapRound
	case LineCapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func ggJoin(j LineJoin) gg.LineJoin {
	switch j {
	case LineJoinRound:
		return gg.LineJoinRound
	case LineJoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}
