package lua

import (
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/color"
)

func (m *Module) registerColor() {
	cls := m.newClass("Color")

	for _, k := range []struct {
		name  string
		field func(c *color.Color) *float64
	}{
		{"r", func(c *color.Color) *float64 { return &c.R }},
		{"g", func(c *color.Color) *float64 { return &c.G }},
		{"b", func(c *color.Color) *float64 { return &c.B }},
		{"a", func(c *color.Color) *float64 { return &c.A }},
	} {
		field := k.field
		get, set := numberProperty(func(v interface{}) *float64 { return field(v.(*color.Color)) })
		cls.property(k.name, get, set)
	}

	m.static(cls, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Color.new", c)
		rgb, err := a.floats(0, 3)
		if err != nil {
			return nil, err
		}
		alpha := 1.0
		if a.has(3) {
			if alpha, err = a.float(3); err != nil {
				return nil, err
			}
		}
		col := color.New(rgb[0], rgb[1], rgb[2], alpha)
		return c.PushingNext1(t.Runtime, cls.wrap(&col)), nil
	}, 4)

	m.static(cls, "parse", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Color.parse", c)
		s, err := a.str(0)
		if err != nil {
			return nil, err
		}
		col, err := color.Parse(s)
		if err != nil {
			return nil, a.fail(err)
		}
		return c.PushingNext1(t.Runtime, cls.wrap(&col)), nil
	}, 1)

	adjust := func(name string, fn func(color.Color, float64) (color.Color, error)) {
		cls.method(name, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
			a := argsOf("Color:"+name, c)
			col, err := a.color(0)
			if err != nil {
				return nil, err
			}
			percent, err := a.float(1)
			if err != nil {
				return nil, err
			}
			adjusted, err := fn(*col, percent)
			if err != nil {
				return nil, a.fail(err)
			}
			*col = adjusted
			return c.PushingNext1(t.Runtime, a.vals[0]), nil
		}, 2)
	}
	adjust("darker", color.Darken)
	adjust("lighter", color.Lighten)

	cls.method("to_hex", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Color:to_hex", c)
		col, err := a.color(0)
		if err != nil {
			return nil, err
		}
		return c.PushingNext1(t.Runtime, rt.StringValue(col.Hex())), nil
	}, 1)
}
