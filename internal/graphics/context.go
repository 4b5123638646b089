// Package graphics implements a Cairo-style 2D drawing engine on top of
// the gg rasterizer. Paths are built in device space, rasterized into
// coverage masks and composited onto premultiplied RGBA surfaces with the
// Cairo operator set.
package graphics

import (
	"fmt"
	"math"
	"sync"

	"github.com/opd-ai/agraphics/internal/color"
)

// drawState is the part of the context saved by Save and restored by
// Restore. The current path is not part of it.
type drawState struct {
	ctm Matrix

	source *Pattern
	// sourceInv maps device space to the user space the source was set in.
	sourceInv Matrix

	antialias  Antialias
	fillRule   FillRule
	lineCap    LineCap
	lineJoin   LineJoin
	lineWidth  float64
	miterLimit float64
	dash       []float64
	dashOffset float64
	operator   Operator

	// clip holds per-pixel clip coverage; nil means unclipped. A clip
	// slice is never modified after it is installed.
	clip []float32
}

func defaultState() drawState {
	return drawState{
		ctm:        NewIdentityMatrix(),
		source:     NewSolidPattern(color.Black),
		sourceInv:  NewIdentityMatrix(),
		antialias:  AntialiasDefault,
		fillRule:   FillRuleWinding,
		lineCap:    LineCapButt,
		lineJoin:   LineJoinMiter,
		lineWidth:  2,
		miterLimit: 10,
		operator:   OperatorOver,
	}
}

// groupFrame records the drawing target active before PushGroup.
type groupFrame struct {
	target *Surface
	depth  int
}

// Context holds the drawing state bound to one target surface.
type Context struct {
	mu sync.Mutex

	base   *Surface
	target *Surface

	state  drawState
	stack  []drawState
	groups []groupFrame

	path   path
	raster *rasterizer
	cov    []float32
}

// ContextBytes returns the working memory a context allocates for a
// width x height target: a rasterizer pixmap and a coverage mask.
func ContextBytes(width, height int) uint64 {
	return 2 * SurfaceBytes(width, height)
}

// NewContext creates a drawing context targeting s.
func NewContext(s *Surface) (*Context, error) {
	if s == nil {
		return nil, fmt.Errorf("new context: %w", ErrNilArgument)
	}
	if s.Destroyed() {
		return nil, fmt.Errorf("new context: %w", ErrSurfaceDestroyed)
	}
	return &Context{
		base:   s,
		target: s,
		state:  defaultState(),
		raster: newRasterizer(s.Width(), s.Height()),
		cov:    make([]float32, s.Width()*s.Height()),
	}, nil
}

// Surface returns the surface the context was created for.
func (c *Context) Surface() *Surface {
	return c.base
}

// Close releases the rasterizer. The context must not be used afterwards.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.raster != nil {
		c.raster.close()
	}
}

// Save pushes a copy of the drawing state.
func (c *Context) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save()
}

func (c *Context) save() {
	saved := c.state
	saved.dash = append([]float64(nil), c.state.dash...)
	c.stack = append(c.stack, saved)
}

// Restore pops the state pushed by the matching Save.
func (c *Context) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restore()
}

func (c *Context) restore() error {
	floor := 0
	if n := len(c.groups); n > 0 {
		floor = c.groups[n-1].depth
	}
	if len(c.stack) <= floor {
		return ErrInvalidRestore
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// GroupBytes returns the size of the surface PushGroup allocates.
func (c *Context) GroupBytes() uint64 {
	return SurfaceBytes(c.base.Width(), c.base.Height())
}

// ClipBytes returns the size of the mask Clip allocates.
func (c *Context) ClipBytes() uint64 {
	return SurfaceBytes(c.base.Width(), c.base.Height())
}

// PushGroup saves the state and redirects drawing to a new transparent
// intermediate surface.
func (c *Context) PushGroup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	group, err := NewSurface(c.base.Width(), c.base.Height())
	if err != nil {
		return fmt.Errorf("push_group: %w", err)
	}
	c.save()
	c.groups = append(c.groups, groupFrame{target: c.target, depth: len(c.stack)})
	c.target = group
	return nil
}

// PopGroupToSource ends the innermost group, restores the state saved by
// PushGroup and installs the group contents as the source.
func (c *Context) PopGroupToSource() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.groups)
	if n == 0 {
		return ErrInvalidPopGroup
	}
	frame := c.groups[n-1]
	group := c.target

	c.stack = c.stack[:frame.depth]
	c.groups = c.groups[:n-1]
	c.target = frame.target
	if err := c.restore(); err != nil {
		return err
	}

	p, err := NewSurfacePattern(group)
	if err != nil {
		return err
	}
	c.state.source = p
	c.state.sourceInv = NewIdentityMatrix()
	return nil
}

// Translate prepends a translation to the CTM.
func (c *Context) Translate(tx, ty float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ctm.Translate(tx, ty)
}

// Scale prepends a scale to the CTM. A zero scale would make the CTM
// singular and is rejected.
func (c *Context) Scale(sx, sy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.state.ctm
	m.Scale(sx, sy)
	return c.setCTM(m)
}

// Rotate prepends a rotation by angle radians to the CTM.
func (c *Context) Rotate(angle float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ctm.Rotate(angle)
}

// Transform prepends m to the CTM.
func (c *Context) Transform(m Matrix) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCTM(Multiply(m, c.state.ctm))
}

// SetMatrix replaces the CTM.
func (c *Context) SetMatrix(m Matrix) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCTM(m)
}

// IdentityMatrix resets the CTM.
func (c *Context) IdentityMatrix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ctm = NewIdentityMatrix()
}

// Matrix returns the CTM.
func (c *Context) Matrix() Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ctm
}

func (c *Context) setCTM(m Matrix) error {
	if _, err := m.Inverse(); err != nil {
		return err
	}
	c.state.ctm = m
	return nil
}

// SetSourceColor installs a solid color source.
func (c *Context) SetSourceColor(col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSource(NewSolidPattern(col))
}

// SetSourceSurface installs s as the source with its origin at user
// coordinates (x, y).
func (c *Context) SetSourceSurface(s *Surface, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := NewSurfacePattern(s)
	if err != nil {
		return err
	}
	if err := p.SetMatrix(NewTranslateMatrix(-x, -y)); err != nil {
		return err
	}
	c.setSource(p)
	return nil
}

// SetSourcePattern installs p as the source.
func (c *Context) SetSourcePattern(p *Pattern) error {
	if p == nil {
		return fmt.Errorf("set_source_pattern: %w", ErrNilArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSource(p)
	return nil
}

// Source returns the current source pattern.
func (c *Context) Source() *Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.source
}

func (c *Context) setSource(p *Pattern) {
	inv, err := c.state.ctm.Inverse()
	if err != nil {
		inv = NewIdentityMatrix()
	}
	c.state.source = p
	c.state.sourceInv = inv
}

// SetAntialias sets the antialiasing mode.
func (c *Context) SetAntialias(a Antialias) error {
	if err := checkEnum("antialias", int(a), a.Valid()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.antialias = a
	return nil
}

// SetFillRule sets the fill rule used by Fill and Clip.
func (c *Context) SetFillRule(f FillRule) error {
	if err := checkEnum("fill rule", int(f), f.Valid()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.fillRule = f
	return nil
}

// SetLineCap sets the line cap style.
func (c *Context) SetLineCap(lc LineCap) error {
	if err := checkEnum("line cap", int(lc), lc.Valid()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.lineCap = lc
	return nil
}

// SetLineJoin sets the line join style.
func (c *Context) SetLineJoin(lj LineJoin) error {
	if err := checkEnum("line join", int(lj), lj.Valid()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.lineJoin = lj
	return nil
}

// SetLineWidth sets the stroke width in user units. Negative widths are
// treated as zero.
func (c *Context) SetLineWidth(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	c.state.lineWidth = w
}

// LineWidth returns the stroke width in user units.
func (c *Context) LineWidth() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.lineWidth
}

// SetMiterLimit sets the miter limit.
func (c *Context) SetMiterLimit(limit float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.miterLimit = limit
}

// SetOperator sets the compositing operator.
func (c *Context) SetOperator(op Operator) error {
	if err := checkEnum("operator", int(op), op.Valid()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.operator = op
	return nil
}

// Operator returns the compositing operator.
func (c *Context) Operator() Operator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.operator
}

// SetDash sets the dash pattern in user units. An empty pattern disables
// dashing.
func (c *Context) SetDash(dashes []float64, offset float64) error {
	allZero := true
	for _, d := range dashes {
		if d < 0 || math.IsNaN(d) {
			return fmt.Errorf("dash length %v: %w", d, ErrInvalidDash)
		}
		if d > 0 {
			allZero = false
		}
	}
	if len(dashes) > 0 && allZero {
		return ErrInvalidDash
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.dash = append([]float64(nil), dashes...)
	c.state.dashOffset = offset
	return nil
}

// NewPath clears the current path.
func (c *Context) NewPath() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.clear()
}

func (c *Context) toDevice(x, y float64) Vector2 {
	dx, dy := c.state.ctm.TransformPoint(x, y)
	return Vector2{dx, dy}
}

// MoveTo begins a new subpath at (x, y).
func (c *Context) MoveTo(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.moveTo(c.toDevice(x, y))
}

// LineTo adds a line to (x, y). Without a current point it acts as MoveTo.
func (c *Context) LineTo(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.lineTo(c.toDevice(x, y))
}

// CurveTo adds a cubic Bézier curve.
func (c *Context) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.cubicTo(c.toDevice(x1, y1), c.toDevice(x2, y2), c.toDevice(x3, y3))
}

// RelMoveTo begins a new subpath offset from the current point.
func (c *Context) RelMoveTo(dx, dy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.path.hasCurrent {
		return ErrNoCurrentPoint
	}
	ddx, ddy := c.state.ctm.TransformDistance(dx, dy)
	c.path.moveTo(c.path.current.Add(Vector2{ddx, ddy}))
	return nil
}

// RelLineTo adds a line offset from the current point.
func (c *Context) RelLineTo(dx, dy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.path.hasCurrent {
		return ErrNoCurrentPoint
	}
	ddx, ddy := c.state.ctm.TransformDistance(dx, dy)
	c.path.lineTo(c.path.current.Add(Vector2{ddx, ddy}))
	return nil
}

// ClosePath closes the current subpath.
func (c *Context) ClosePath() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.closePath()
}

// Rectangle adds a closed rectangular subpath.
func (c *Context) Rectangle(x, y, w, h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path.moveTo(c.toDevice(x, y))
	c.path.lineTo(c.toDevice(x+w, y))
	c.path.lineTo(c.toDevice(x+w, y+h))
	c.path.lineTo(c.toDevice(x, y+h))
	c.path.closePath()
}

// Arc adds a circular arc of radius r around (xc, yc) from angle a1 to a2
// in the direction of increasing angles. If there is a current point a
// line to the arc start is added first.
func (c *Context) Arc(xc, yc, r, a1, a2 float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arc(xc, yc, r, a1, normalizeArc(a1, a2, false))
}

// ArcNegative adds an arc in the direction of decreasing angles.
func (c *Context) ArcNegative(xc, yc, r, a1, a2 float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arc(xc, yc, r, a1, normalizeArc(a1, a2, true))
}

func (c *Context) arc(xc, yc, r, a1, a2 float64) {
	start, curves := arcSegments(xc, yc, r, a1, a2)
	c.path.lineTo(c.toDevice(start.X, start.Y))
	for _, cv := range curves {
		c.path.cubicTo(
			c.toDevice(cv[0].X, cv[0].Y),
			c.toDevice(cv[1].X, cv[1].Y),
			c.toDevice(cv[2].X, cv[2].Y),
		)
	}
}

// CurrentPoint returns the current point in user space.
func (c *Context) CurrentPoint() (Vector2, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.path.hasCurrent {
		return Vector2{}, false
	}
	inv, err := c.state.ctm.Inverse()
	if err != nil {
		return Vector2{}, false
	}
	x, y := inv.TransformPoint(c.path.current.X, c.path.current.Y)
	return Vector2{x, y}, true
}

// Fill paints the interior of the current path with the source. The path
// is cleared unless preserve is set.
func (c *Context) Fill(preserve bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishPath(preserve)

	if c.path.empty() {
		return c.checkTarget()
	}
	if err := c.raster.fill(&c.path, c.state.fillRule, c.cov); err != nil {
		return err
	}
	return c.composite(c.cov, 1)
}

// Stroke paints the outline of the current path with the source using
// the current line style. The path is cleared unless preserve is set.
func (c *Context) Stroke(preserve bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishPath(preserve)

	scale := c.state.ctm.ScaleFactor()
	width := c.state.lineWidth * scale
	if width <= 0 || c.path.empty() {
		return c.checkTarget()
	}
	st := strokeStyle{
		width:      width,
		cap:        c.state.lineCap,
		join:       c.state.lineJoin,
		miterLimit: c.state.miterLimit,
		dashOffset: c.state.dashOffset * scale,
	}
	for _, d := range c.state.dash {
		st.dash = append(st.dash, d*scale)
	}
	if err := c.raster.stroke(&c.path, st, c.cov); err != nil {
		return err
	}
	return c.composite(c.cov, 1)
}

// Clip intersects the clip region with the current path. The path is
// cleared unless preserve is set.
func (c *Context) Clip(preserve bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishPath(preserve)

	if c.path.empty() {
		c.state.clip = make([]float32, len(c.cov))
		return nil
	}
	if err := c.raster.fill(&c.path, c.state.fillRule, c.cov); err != nil {
		return err
	}
	clip := make([]float32, len(c.cov))
	for i, v := range c.cov {
		v = c.threshold(v)
		if c.state.clip != nil {
			v *= c.state.clip[i]
		}
		clip[i] = v
	}
	c.state.clip = clip
	return nil
}

// ResetClip removes any clip region.
func (c *Context) ResetClip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.clip = nil
}

// Paint paints the source everywhere within the clip region.
func (c *Context) Paint() error {
	return c.PaintWithAlpha(1)
}

// PaintWithAlpha paints the source everywhere within the clip region
// using alpha as a uniform mask.
func (c *Context) PaintWithAlpha(alpha float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composite(nil, math.Max(0, math.Min(1, alpha)))
}

func (c *Context) finishPath(preserve bool) {
	if !preserve {
		c.path.clear()
	}
}

func (c *Context) checkTarget() error {
	if c.target.Destroyed() {
		return ErrSurfaceDestroyed
	}
	return nil
}

func (c *Context) threshold(v float32) float32 {
	if !c.state.antialias.aliased() {
		return v
	}
	if v >= 0.5 {
		return 1
	}
	return 0
}

// composite blends the source into the target. cov is the shape
// coverage or nil for an unbounded paint; alpha scales it uniformly.
func (c *Context) composite(cov []float32, alpha float64) error {
	if err := c.checkTarget(); err != nil {
		return err
	}
	src := c.state.source.newSampler(c.state.sourceInv)
	op := c.state.operator
	clip := c.state.clip

	t := c.target
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.Width(), t.Height()
	pix := t.img.Pix
	stride := t.img.Stride
	sr, sg, sb, sa := src.at(0.5, 0.5)
	constant := src.constant()

	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			i := y*w + x
			m := alpha
			if cov != nil {
				m *= float64(c.threshold(cov[i]))
			}
			if clip != nil {
				m *= float64(clip[i])
			}
			if m <= 0 {
				continue
			}
			if !constant {
				sr, sg, sb, sa = src.at(float64(x)+0.5, float64(y)+0.5)
			}
			p := row[x*4 : x*4+4 : x*4+4]
			dr := float64(p[0]) / 255
			dg := float64(p[1]) / 255
			db := float64(p[2]) / 255
			da := float64(p[3]) / 255
			r, g, b, a := blend(op, sr, sg, sb, sa, dr, dg, db, da)
			p[0] = to8(dr + (r-dr)*m)
			p[1] = to8(dg + (g-dg)*m)
			p[2] = to8(db + (b-db)*m)
			p[3] = to8(da + (a-da)*m)
		}
	}
	return nil
}
