package lua

import (
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/graphics"
)

func (m *Module) registerVector2() {
	cls := m.newClass("Vector2")

	x, setX := numberProperty(func(v interface{}) *float64 { return &v.(*graphics.Vector2).X })
	y, setY := numberProperty(func(v interface{}) *float64 { return &v.(*graphics.Vector2).Y })
	cls.property("x", x, setX)
	cls.property("y", y, setY)

	m.static(cls, "new", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Vector2.new", c)
		xy, err := a.floats(0, 2)
		if err != nil {
			return nil, err
		}
		v := graphics.Vec(xy[0], xy[1])
		return c.PushingNext1(t.Runtime, cls.wrap(&v)), nil
	}, 2)
}

func (m *Module) registerMatrix() {
	cls := m.newClass("Matrix")

	newMatrix := func(name string, n int, build func(f []float64) graphics.Matrix) {
		m.static(cls, name, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
			f, err := argsOf("Matrix."+name, c).floats(0, n)
			if err != nil {
				return nil, err
			}
			mat := build(f)
			return c.PushingNext1(t.Runtime, cls.wrap(&mat)), nil
		}, n)
	}
	newMatrix("new", 0, func([]float64) graphics.Matrix { return graphics.NewIdentityMatrix() })
	newMatrix("new_translate", 2, func(f []float64) graphics.Matrix { return graphics.NewTranslateMatrix(f[0], f[1]) })
	newMatrix("new_scale", 2, func(f []float64) graphics.Matrix { return graphics.NewScaleMatrix(f[0], f[1]) })
	newMatrix("new_rotate", 1, func(f []float64) graphics.Matrix { return graphics.NewRotateMatrix(f[0]) })

	inPlace := func(name string, n int, apply func(mat *graphics.Matrix, f []float64)) {
		cls.method(name, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
			a := argsOf("Matrix:"+name, c)
			mat, err := a.matrix(0)
			if err != nil {
				return nil, err
			}
			f, err := a.floats(1, n)
			if err != nil {
				return nil, err
			}
			apply(mat, f)
			return c.PushingNext1(t.Runtime, a.vals[0]), nil
		}, n+1)
	}
	inPlace("translate", 2, func(mat *graphics.Matrix, f []float64) { mat.Translate(f[0], f[1]) })
	inPlace("scale", 2, func(mat *graphics.Matrix, f []float64) { mat.Scale(f[0], f[1]) })
	inPlace("rotate", 1, func(mat *graphics.Matrix, f []float64) { mat.Rotate(f[0]) })

	cls.method("invert", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Matrix:invert", c)
		mat, err := a.matrix(0)
		if err != nil {
			return nil, err
		}
		if err := mat.Invert(); err != nil {
			return nil, errInvert
		}
		return c.PushingNext1(t.Runtime, a.vals[0]), nil
	}, 1)

	cls.method("transform_point", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Matrix:transform_point", c)
		mat, err := a.matrix(0)
		if err != nil {
			return nil, err
		}
		f, err := a.floats(1, 2)
		if err != nil {
			return nil, err
		}
		x, y := mat.TransformPoint(f[0], f[1])
		return c.PushingNext(t.Runtime, rt.FloatValue(x), rt.FloatValue(y)), nil
	}, 3)

	for _, k := range []struct {
		name  string
		field func(mat *graphics.Matrix) *float64
	}{
		{"xx", func(mat *graphics.Matrix) *float64 { return &mat.XX }},
		{"yx", func(mat *graphics.Matrix) *float64 { return &mat.YX }},
		{"xy", func(mat *graphics.Matrix) *float64 { return &mat.XY }},
		{"yy", func(mat *graphics.Matrix) *float64 { return &mat.YY }},
		{"x0", func(mat *graphics.Matrix) *float64 { return &mat.X0 }},
		{"y0", func(mat *graphics.Matrix) *float64 { return &mat.Y0 }},
	} {
		field := k.field
		get, _ := numberProperty(func(v interface{}) *float64 { return field(v.(*graphics.Matrix)) })
		cls.property(k.name, get, nil)
	}

	m.setFunction(cls.meta, "__mul", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a := argsOf("Matrix.__mul", c)
		lhs, err := a.matrix(0)
		if err != nil {
			return nil, err
		}
		rhs, err := a.matrix(1)
		if err != nil {
			return nil, err
		}
		res := graphics.Multiply(*lhs, *rhs)
		return c.PushingNext1(t.Runtime, cls.wrap(&res)), nil
	}, 2)
}
