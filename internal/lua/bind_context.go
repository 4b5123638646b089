package lua

import (
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/graphics"
)

// contextFunc implements a Context method that returns nothing.
type contextFunc func(a callArgs, ctx *graphics.Context) error

func (m *Module) registerContext() {
	cls := m.newClass("Context")

	m.static(cls, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Context.new", c)
		s, err := a.surface(0)
		if err != nil {
			return nil, err
		}
		if !s.Destroyed() {
			t.RequireMem(graphics.ContextBytes(s.Width(), s.Height()))
		}
		ctx, err := graphics.NewContext(s)
		if err != nil {
			return nil, a.fail(err)
		}
		return c.PushingNext1(t.Runtime, cls.wrap(ctx)), nil
	}, 1)

	// allocating registers a method that charges cost(ctx) bytes to the
	// VM memory quota before running.
	allocating := func(name string, nArgs int, cost func(*graphics.Context) uint64, fn contextFunc) {
		cls.method(name, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
			a := argsOf("Context:"+name, c)
			ctx, err := a.context(0)
			if err != nil {
				return nil, err
			}
			if cost != nil {
				t.RequireMem(cost(ctx))
			}
			if err := fn(a, ctx); err != nil {
				return nil, err
			}
			return c.Next(), nil
		}, nArgs+1)
	}
	method := func(name string, nArgs int, fn contextFunc) {
		allocating(name, nArgs, nil, fn)
	}

	// State.
	method("save", 0, func(_ callArgs, ctx *graphics.Context) error {
		ctx.Save()
		return nil
	})
	method("restore", 0, failing((*graphics.Context).Restore))
	allocating("push_group", 0, (*graphics.Context).GroupBytes, failing((*graphics.Context).PushGroup))
	method("pop_group_to_source", 0, failing((*graphics.Context).PopGroupToSource))

	// Transformations.
	method("translate", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		ctx.Translate(f[0], f[1])
		return nil
	}))
	method("scale", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		return ctx.Scale(f[0], f[1])
	}))
	method("rotate", 1, numeric(1, func(ctx *graphics.Context, f []float64) error {
		ctx.Rotate(f[0])
		return nil
	}))
	method("identity_matrix", 0, func(_ callArgs, ctx *graphics.Context) error {
		ctx.IdentityMatrix()
		return nil
	})
	method("transform", 1, func(a callArgs, ctx *graphics.Context) error {
		mat, err := a.matrix(1)
		if err != nil {
			return err
		}
		return wrapFail(a, ctx.Transform(*mat))
	})
	method("set_matrix", 1, func(a callArgs, ctx *graphics.Context) error {
		mat, err := a.matrix(1)
		if err != nil {
			return err
		}
		return wrapFail(a, ctx.SetMatrix(*mat))
	})

	// Sources.
	method("set_source_color", 1, func(a callArgs, ctx *graphics.Context) error {
		col, err := a.color(1)
		if err != nil {
			return err
		}
		ctx.SetSourceColor(*col)
		return nil
	})
	method("set_source_surface", 3, func(a callArgs, ctx *graphics.Context) error {
		s, err := a.surface(1)
		if err != nil {
			return err
		}
		xy, err := a.floats(2, 2)
		if err != nil {
			return err
		}
		return wrapFail(a, ctx.SetSourceSurface(s, xy[0], xy[1]))
	})
	method("set_source_pattern", 1, func(a callArgs, ctx *graphics.Context) error {
		p, err := a.pattern(1)
		if err != nil {
			return err
		}
		return wrapFail(a, ctx.SetSourcePattern(p))
	})

	// Style.
	method("set_antialias", 1, enum(func(ctx *graphics.Context, v int) error {
		return ctx.SetAntialias(graphics.Antialias(v))
	}))
	method("set_fill_rule", 1, enum(func(ctx *graphics.Context, v int) error {
		return ctx.SetFillRule(graphics.FillRule(v))
	}))
	method("set_line_cap", 1, enum(func(ctx *graphics.Context, v int) error {
		return ctx.SetLineCap(graphics.LineCap(v))
	}))
	method("set_line_join", 1, enum(func(ctx *graphics.Context, v int) error {
		return ctx.SetLineJoin(graphics.LineJoin(v))
	}))
	method("set_operator", 1, enum(func(ctx *graphics.Context, v int) error {
		return ctx.SetOperator(graphics.Operator(v))
	}))
	method("set_line_width", 1, numeric(1, func(ctx *graphics.Context, f []float64) error {
		ctx.SetLineWidth(f[0])
		return nil
	}))
	method("set_miter_limit", 1, numeric(1, func(ctx *graphics.Context, f []float64) error {
		ctx.SetMiterLimit(f[0])
		return nil
	}))
	method("set_dash", 2, func(a callArgs, ctx *graphics.Context) error {
		tbl, err := a.table(1)
		if err != nil {
			return err
		}
		var dashes []float64
		for i := int64(1); ; i++ {
			v := tbl.Get(rt.IntValue(i))
			if v.IsNil() {
				break
			}
			d, err := (callArgs{fn: a.fn, vals: []rt.Value{v}}).float(0)
			if err != nil {
				return a.errorf(1, "dash %d is not a number", i)
			}
			dashes = append(dashes, d)
		}
		offset := 0.0
		if a.has(2) {
			if offset, err = a.float(2); err != nil {
				return err
			}
		}
		return wrapFail(a, ctx.SetDash(dashes, offset))
	})

	// Drawing.
	drawing := func(op func(*graphics.Context, bool) error) contextFunc {
		return func(a callArgs, ctx *graphics.Context) error {
			return wrapFail(a, op(ctx, a.optBool(1)))
		}
	}
	allocating("clip", 1, (*graphics.Context).ClipBytes, drawing((*graphics.Context).Clip))
	method("fill", 1, drawing((*graphics.Context).Fill))
	method("stroke", 1, drawing((*graphics.Context).Stroke))
	method("reset_clip", 0, func(_ callArgs, ctx *graphics.Context) error {
		ctx.ResetClip()
		return nil
	})
	method("paint", 0, failing((*graphics.Context).Paint))
	method("paint_with_alpha", 1, numeric(1, func(ctx *graphics.Context, f []float64) error {
		return ctx.PaintWithAlpha(f[0])
	}))

	// Paths.
	method("new_path", 0, func(_ callArgs, ctx *graphics.Context) error {
		ctx.NewPath()
		return nil
	})
	method("move_to", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		ctx.MoveTo(f[0], f[1])
		return nil
	}))
	method("line_to", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		ctx.LineTo(f[0], f[1])
		return nil
	}))
	method("rel_move_to", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		return ctx.RelMoveTo(f[0], f[1])
	}))
	method("rel_line_to", 2, numeric(2, func(ctx *graphics.Context, f []float64) error {
		return ctx.RelLineTo(f[0], f[1])
	}))
	method("curve_to", 6, numeric(6, func(ctx *graphics.Context, f []float64) error {
		ctx.CurveTo(f[0], f[1], f[2], f[3], f[4], f[5])
		return nil
	}))
	method("close_path", 0, func(_ callArgs, ctx *graphics.Context) error {
		ctx.ClosePath()
		return nil
	})
	method("rectangle", 4, numeric(4, func(ctx *graphics.Context, f []float64) error {
		ctx.Rectangle(f[0], f[1], f[2], f[3])
		return nil
	}))
	method("arc", 5, numeric(5, func(ctx *graphics.Context, f []float64) error {
		ctx.Arc(f[0], f[1], f[2], f[3], f[4])
		return nil
	}))
	method("arc_negative", 5, numeric(5, func(ctx *graphics.Context, f []float64) error {
		ctx.ArcNegative(f[0], f[1], f[2], f[3], f[4])
		return nil
	}))

	// Queries.
	cls.method("get_current_point", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		ctx, err := argsOf("Context:get_current_point", c).context(0)
		if err != nil {
			return nil, err
		}
		pt, ok := ctx.CurrentPoint()
		if !ok {
			return c.PushingNext1(t.Runtime, rt.NilValue), nil
		}
		return c.PushingNext(t.Runtime, rt.FloatValue(pt.X), rt.FloatValue(pt.Y)), nil
	}, 1)
	cls.method("get_matrix", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		ctx, err := argsOf("Context:get_matrix", c).context(0)
		if err != nil {
			return nil, err
		}
		mat := ctx.Matrix()
		return c.PushingNext1(t.Runtime, m.classes["Matrix"].wrap(&mat)), nil
	}, 1)
	cls.method("get_source", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		ctx, err := argsOf("Context:get_source", c).context(0)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, m.wrapPattern(ctx.Source())), nil
	}, 1)
	cls.method("get_line_width", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		ctx, err := argsOf("Context:get_line_width", c).context(0)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, rt.FloatValue(ctx.LineWidth())), nil
	}, 1)
}

func wrapFail(a callArgs, err error) error {
	if err != nil {
		return a.fail(err)
	}
	return nil
}

// failing adapts a method without arguments that can fail.
func failing(op func(*graphics.Context) error) contextFunc {
	return func(a callArgs, ctx *graphics.Context) error {
		return wrapFail(a, op(ctx))
	}
}

// numeric reads n numbers after self and passes them to op.
func numeric(n int, op func(ctx *graphics.Context, f []float64) error) contextFunc {
	return func(a callArgs, ctx *graphics.Context) error {
		f, err := a.floats(1, n)
		if err != nil {
			return err
		}
		return wrapFail(a, op(ctx, f))
	}
}

// enum reads one integer constant after self.
func enum(op func(ctx *graphics.Context, v int) error) contextFunc {
	return func(a callArgs, ctx *graphics.Context) error {
		v, err := a.int(1)
		if err != nil {
			return err
		}
		return wrapFail(a, op(ctx, int(v)))
	}
}
