package lua

import (
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/color"
	"github.com/opd-ai/agraphics/internal/graphics"
)

func (m *Module) registerSurface() {
	cls := m.newClass("Surface")

	cls.property("width", func(v interface{}) rt.Value {
		return rt.IntValue(int64(v.(*graphics.Surface).Width()))
	}, nil)
	cls.property("height", func(v interface{}) rt.Value {
		return rt.IntValue(int64(v.(*graphics.Surface).Height()))
	}, nil)

	m.static(cls, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Surface.new", c)
		size, err := a.vector(0)
		if err != nil {
			return nil, err
		}
		w, h := int(size.X), int(size.Y)
		t.RequireMem(graphics.SurfaceBytes(w, h))
		s, err := graphics.NewSurface(w, h)
		if err != nil {
			return nil, a.fail(err)
		}
		return c.PushingNext1(t.Runtime, cls.wrap(s)), nil
	}, 1)

	m.static(cls, "new_from_png", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Surface.new_from_png", c)
		path, err := a.str(0)
		if err != nil {
			return nil, err
		}
		w, h, err := graphics.ImageSize(path)
		if err != nil {
			return nil, a.fail(err)
		}
		t.RequireMem(graphics.SurfaceBytes(w, h))
		s, err := graphics.LoadSurface(path)
		if err != nil {
			return nil, a.fail(err)
		}
		return c.PushingNext1(t.Runtime, cls.wrap(s)), nil
	}, 1)

	cls.method("export", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Surface:export", c)
		s, err := a.surface(0)
		if err != nil {
			return nil, err
		}
		path, err := a.str(1)
		if err != nil {
			return nil, err
		}
		if err := s.Export(path); err != nil {
			return nil, a.fail(err)
		}
		return c.Next(), nil
	}, 2)

	cls.method("get_pixel", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Surface:get_pixel", c)
		s, err := a.surface(0)
		if err != nil {
			return nil, err
		}
		x, err := a.int(1)
		if err != nil {
			return nil, err
		}
		y, err := a.int(2)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, m.wrapColor(s.Pixel(int(x), int(y)))), nil
	}, 3)

	cls.method("destroy", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		s, err := argsOf("Surface:destroy", c).surface(0)
		if err != nil {
			return nil, err
		}
		s.Destroy()
		return c.Next(), nil
	}, 1)
}

func (m *Module) registerPatterns() {
	base := m.newClass("Pattern")
	base.method("set_matrix", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Pattern:set_matrix", c)
		p, err := a.pattern(0)
		if err != nil {
			return nil, err
		}
		mat, err := a.matrix(1)
		if err != nil {
			return nil, err
		}
		if err := p.SetMatrix(*mat); err != nil {
			return nil, a.fail(err)
		}
		return c.Next(), nil
	}, 2)
	base.method("set_extend", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Pattern:set_extend", c)
		p, err := a.pattern(0)
		if err != nil {
			return nil, err
		}
		e, err := a.int(1)
		if err != nil {
			return nil, err
		}
		if err := p.SetExtend(graphics.Extend(e)); err != nil {
			return nil, a.fail(err)
		}
		return c.Next(), nil
	}, 2)

	gradient := m.newClass("GradientPattern", base)
	gradient.method("add_color_stop", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("GradientPattern:add_color_stop", c)
		p, err := a.pattern(0)
		if err != nil {
			return nil, err
		}
		offset, err := a.float(1)
		if err != nil {
			return nil, err
		}
		col, err := a.color(2)
		if err != nil {
			return nil, err
		}
		if err := p.AddColorStop(offset, *col); err != nil {
			return nil, a.fail(err)
		}
		return c.Next(), nil
	}, 3)

	solid := m.newClass("SolidPattern", base)
	m.static(solid, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("SolidPattern.new", c)
		col, err := a.color(0)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, solid.wrap(graphics.NewSolidPattern(*col))), nil
	}, 1)

	surface := m.newClass("SurfacePattern", base)
	m.static(surface, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("SurfacePattern.new", c)
		s, err := a.surface(0)
		if err != nil {
			return nil, err
		}
		p, err := graphics.NewSurfacePattern(s)
		if err != nil {
			return nil, a.fail(err)
		}
		return c.PushingNext1(t.Runtime, surface.wrap(p)), nil
	}, 1)

	linear := m.newClass("LinearGradientPattern", gradient)
	m.static(linear, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("LinearGradientPattern.new", c)
		p0, err := a.vector(0)
		if err != nil {
			return nil, err
		}
		p1, err := a.vector(1)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, linear.wrap(graphics.NewLinearGradient(*p0, *p1))), nil
	}, 2)

	radial := m.newClass("RadialGradientPattern", gradient)
	m.static(radial, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("RadialGradientPattern.new", c)
		c0, err := a.vector(0)
		if err != nil {
			return nil, err
		}
		r0, err := a.float(1)
		if err != nil {
			return nil, err
		}
		c1, err := a.vector(2)
		if err != nil {
			return nil, err
		}
		r1, err := a.float(3)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, radial.wrap(graphics.NewRadialGradient(*c0, r0, *c1, r1))), nil
	}, 4)
}

// wrapPattern boxes p with the class matching its kind.
func (m *Module) wrapPattern(p *graphics.Pattern) rt.Value {
	return m.classes[p.Kind().String()].wrap(p)
}

// wrapColor boxes a copy of col.
func (m *Module) wrapColor(col color.Color) rt.Value {
	return m.classes["Color"].wrap(&col)
}
