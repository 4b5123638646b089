package graphics

import (
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/gogpu/gg"

	"github.com/opd-ai/agraphics/internal/color"
)

// PatternKind identifies the concrete kind of a Pattern.
type PatternKind int

const (
	PatternSolid PatternKind = iota
	PatternSurface
	PatternLinear
	PatternRadial
)

func (k PatternKind) String() string {
	switch k {
	case PatternSolid:
		return "SolidPattern"
	case PatternSurface:
		return "SurfacePattern"
	case PatternLinear:
		return "LinearGradientPattern"
	case PatternRadial:
		return "RadialGradientPattern"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// ColorStop is a gradient color at an offset in [0, 1].
type ColorStop struct {
	Offset float64
	Color  color.Color
}

// Pattern is a paint source. Its matrix maps user space to pattern space,
// as with cairo_pattern_set_matrix.
type Pattern struct {
	mu     sync.Mutex
	kind   PatternKind
	matrix Matrix
	extend Extend

	solid   color.Color
	surface *Surface

	// linear: p0 -> p1; radial: circle (p0, r0) -> circle (p1, r1)
	p0, p1 Vector2
	r0, r1 float64
	stops  []ColorStop

	// ramp caches the gradient lookup built from stops.
	ramp *colorRamp
}

// NewSolidPattern returns a pattern painting a single color.
func NewSolidPattern(c color.Color) *Pattern {
	return &Pattern{kind: PatternSolid, matrix: NewIdentityMatrix(), extend: ExtendPad, solid: c}
}

// NewSurfacePattern returns a pattern sampling s. Outside the surface the
// pattern is transparent until the extend mode is changed.
func NewSurfacePattern(s *Surface) (*Pattern, error) {
	if s == nil {
		return nil, fmt.Errorf("surface pattern: %w", ErrNilArgument)
	}
	return &Pattern{kind: PatternSurface, matrix: NewIdentityMatrix(), extend: ExtendNone, surface: s}, nil
}

// NewLinearGradient returns a gradient running from p0 to p1.
func NewLinearGradient(p0, p1 Vector2) *Pattern {
	return &Pattern{kind: PatternLinear, matrix: NewIdentityMatrix(), extend: ExtendPad, p0: p0, p1: p1}
}

// NewRadialGradient returns a gradient between the circle (c0, r0) and
// the circle (c1, r1).
func NewRadialGradient(c0 Vector2, r0 float64, c1 Vector2, r1 float64) *Pattern {
	return &Pattern{
		kind:   PatternRadial,
		matrix: NewIdentityMatrix(),
		extend: ExtendPad,
		p0:     c0,
		r0:     r0,
		p1:     c1,
		r1:     r1,
	}
}

// Kind returns the pattern kind.
func (p *Pattern) Kind() PatternKind {
	return p.kind
}

// IsGradient reports whether color stops can be added to p.
func (p *Pattern) IsGradient() bool {
	return p.kind == PatternLinear || p.kind == PatternRadial
}

// AddColorStop appends a color stop. The offset is clamped to [0, 1].
// Stops with equal offsets keep their insertion order.
func (p *Pattern) AddColorStop(offset float64, c color.Color) error {
	if !p.IsGradient() {
		return fmt.Errorf("add_color_stop on %s: %w", p.kind, ErrNotGradient)
	}
	if math.IsNaN(offset) {
		offset = 0
	}
	offset = math.Max(0, math.Min(1, offset))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops = append(p.stops, ColorStop{Offset: offset, Color: c})
	sort.SliceStable(p.stops, func(i, j int) bool {
		return p.stops[i].Offset < p.stops[j].Offset
	})
	p.ramp = nil
	return nil
}

// ColorStops returns a copy of the gradient stops in offset order.
func (p *Pattern) ColorStops() []ColorStop {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ColorStop(nil), p.stops...)
}

// SetMatrix sets the user-to-pattern space transformation. The matrix
// must be invertible.
func (p *Pattern) SetMatrix(m Matrix) error {
	if _, err := m.Inverse(); err != nil {
		return fmt.Errorf("set_matrix: %w", err)
	}
	p.mu.Lock()
	p.matrix = m
	p.mu.Unlock()
	return nil
}

// Matrix returns the pattern matrix.
func (p *Pattern) Matrix() Matrix {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matrix
}

// SetExtend sets the extend mode.
func (p *Pattern) SetExtend(e Extend) error {
	if err := checkEnum("extend", int(e), e.Valid()); err != nil {
		return err
	}
	p.mu.Lock()
	p.extend = e
	p.mu.Unlock()
	return nil
}

// Extend returns the extend mode.
func (p *Pattern) Extend() Extend {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.extend
}

// sampler is a pattern frozen for one drawing operation.
type sampler struct {
	kind     PatternKind
	toSource Matrix
	extend   Extend

	// premultiplied solid color
	sr, sg, sb, sa float64

	// snapshot of the source surface; nil when destroyed
	pixels *image.RGBA

	p0, p1 Vector2
	r0, r1 float64
	ramp   *colorRamp
}

// newSampler captures the pattern state. deviceToUser maps device
// coordinates to the user space the pattern was installed in.
func (p *Pattern) newSampler(deviceToUser Matrix) *sampler {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &sampler{
		kind:     p.kind,
		toSource: Multiply(deviceToUser, p.matrix),
		extend:   p.extend,
		p0:       p.p0,
		p1:       p.p1,
		r0:       p.r0,
		r1:       p.r1,
	}
	switch p.kind {
	case PatternSolid:
		s.sr, s.sg, s.sb, s.sa = p.solid.Premultiplied()
	case PatternSurface:
		if !p.surface.Destroyed() {
			s.pixels = p.surface.Snapshot()
		}
	case PatternLinear, PatternRadial:
		if p.ramp == nil {
			p.ramp = newColorRamp(p.stops)
		}
		s.ramp = p.ramp
	}
	return s
}

// colorRamp looks up gradient colors between stops. Colors are blended
// in non-premultiplied sRGB, as Cairo does.
type colorRamp struct {
	offsets []float64
	colors  []gg.RGBA
}

// newColorRamp captures stops, which must already be in offset order.
func newColorRamp(stops []ColorStop) *colorRamp {
	r := &colorRamp{
		offsets: make([]float64, len(stops)),
		colors:  make([]gg.RGBA, len(stops)),
	}
	for i, st := range stops {
		r.offsets[i] = st.Offset
		r.colors[i] = gg.RGBA2(st.Color.R, st.Color.G, st.Color.B, st.Color.A)
	}
	return r
}

// at returns the color at t in [0, 1]. Outside the stop range the
// nearest end stop is used.
func (r *colorRamp) at(t float64) gg.RGBA {
	n := len(r.offsets)
	if t <= r.offsets[0] {
		return r.colors[0]
	}
	if t >= r.offsets[n-1] {
		return r.colors[n-1]
	}
	// hi is the first stop past t, so offsets[lo] <= t < offsets[hi].
	hi := sort.Search(n, func(i int) bool { return r.offsets[i] > t })
	lo := hi - 1
	f := (t - r.offsets[lo]) / (r.offsets[hi] - r.offsets[lo])
	return r.colors[lo].Lerp(r.colors[hi], f)
}

// extendParam maps a gradient parameter into [0, 1]. It reports false
// where the gradient paints nothing.
func extendParam(t float64, extend Extend) (float64, bool) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	switch extend {
	case ExtendRepeat:
		return t - math.Floor(t), true
	case ExtendReflect:
		t = math.Mod(t, 2)
		if t < 0 {
			t += 2
		}
		if t > 1 {
			t = 2 - t
		}
		return t, true
	case ExtendPad:
		return math.Max(0, math.Min(1, t)), true
	}
	return t, t >= 0 && t <= 1
}

// constant reports whether the sampler paints the same color everywhere.
func (s *sampler) constant() bool {
	return s.kind == PatternSolid
}

// at returns the premultiplied source color at device pixel center
// (x, y).
func (s *sampler) at(x, y float64) (r, g, b, a float64) {
	if s.kind == PatternSolid {
		return s.sr, s.sg, s.sb, s.sa
	}
	px, py := s.toSource.TransformPoint(x, y)
	switch s.kind {
	case PatternSurface:
		return s.surfaceAt(px, py)
	case PatternLinear:
		return s.gradientAt(s.linearParam(px, py))
	case PatternRadial:
		t, ok := s.radialParam(px, py)
		if !ok {
			return 0, 0, 0, 0
		}
		return s.gradientAt(t)
	}
	return 0, 0, 0, 0
}

func (s *sampler) linearParam(x, y float64) float64 {
	d := s.p1.Sub(s.p0)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return 0
	}
	return Vector2{x, y}.Sub(s.p0).Dot(d) / lenSq
}

// radialParam solves for the largest t such that (x, y) lies on the
// circle interpolated between the two gradient circles with a
// non-negative radius.
func (s *sampler) radialParam(x, y float64) (float64, bool) {
	cd := s.p1.Sub(s.p0)
	pd := Vector2{x, y}.Sub(s.p0)
	dr := s.r1 - s.r0

	a := cd.Dot(cd) - dr*dr
	b := pd.Dot(cd) + s.r0*dr
	c := pd.Dot(pd) - s.r0*s.r0

	valid := func(t float64) bool { return s.r0+t*dr >= 0 }

	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, false
		}
		t := c / (2 * b)
		return t, valid(t)
	}

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (b + sq) / a
	t2 := (b - sq) / a
	if t1 < t2 {
		t1, t2 = t2, t1
	}
	if valid(t1) {
		return t1, true
	}
	if valid(t2) {
		return t2, true
	}
	return 0, false
}

func (s *sampler) gradientAt(t float64) (r, g, b, a float64) {
	if s.ramp == nil || len(s.ramp.offsets) == 0 {
		return 0, 0, 0, 0
	}
	t, ok := extendParam(t, s.extend)
	if !ok {
		return 0, 0, 0, 0
	}
	c := s.ramp.at(t)
	return color.Color{R: c.R, G: c.G, B: c.B, A: c.A}.Premultiplied()
}

func (s *sampler) surfaceAt(x, y float64) (r, g, b, a float64) {
	if s.pixels == nil {
		return 0, 0, 0, 0
	}
	ix, okx := wrapIndex(int(math.Floor(x)), s.pixels.Rect.Dx(), s.extend)
	iy, oky := wrapIndex(int(math.Floor(y)), s.pixels.Rect.Dy(), s.extend)
	if !okx || !oky {
		return 0, 0, 0, 0
	}
	i := s.pixels.PixOffset(ix, iy)
	px := s.pixels.Pix[i : i+4 : i+4]
	return float64(px[0]) / 255, float64(px[1]) / 255, float64(px[2]) / 255, float64(px[3]) / 255
}

func wrapIndex(i, n int, extend Extend) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch extend {
	case ExtendRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i, true
	case ExtendReflect:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i, true
	case ExtendPad:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	}
	return 0, false
}
