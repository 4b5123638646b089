package lua

import (
	"fmt"
	"math"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/color"
	"github.com/opd-ai/agraphics/internal/graphics"
)

// callArgs holds the arguments of one Go function call together with the
// function name used in error messages.
type callArgs struct {
	fn   string
	vals []rt.Value
}

// argsOf combines Args() and Etc() so optional trailing arguments are seen.
func argsOf(fn string, c *rt.GoCont) callArgs {
	return callArgs{fn: fn, vals: append(c.Args(), c.Etc()...)}
}

func (a callArgs) errorf(i int, format string, v ...interface{}) error {
	return fmt.Errorf("%s: bad argument #%d: %s", a.fn, i+1, fmt.Sprintf(format, v...))
}

// fail wraps an error raised by the graphics layer.
func (a callArgs) fail(err error) error {
	return fmt.Errorf("%s: %w", a.fn, err)
}

func (a callArgs) has(i int) bool {
	return i < len(a.vals) && !a.vals[i].IsNil()
}

func (a callArgs) float(i int) (float64, error) {
	if i >= len(a.vals) {
		return 0, a.errorf(i, "number expected, got no value")
	}
	if f, ok := a.vals[i].TryFloat(); ok {
		return f, nil
	}
	if n, ok := a.vals[i].TryInt(); ok {
		return float64(n), nil
	}
	return 0, a.errorf(i, "number expected, got %s", typeName(a.vals[i]))
}

func (a callArgs) int(i int) (int64, error) {
	if i >= len(a.vals) {
		return 0, a.errorf(i, "integer expected, got no value")
	}
	if n, ok := a.vals[i].TryInt(); ok {
		return n, nil
	}
	if f, ok := a.vals[i].TryFloat(); ok && f == math.Trunc(f) {
		return int64(f), nil
	}
	return 0, a.errorf(i, "integer expected, got %s", typeName(a.vals[i]))
}

func (a callArgs) str(i int) (string, error) {
	if i >= len(a.vals) {
		return "", a.errorf(i, "string expected, got no value")
	}
	if s, ok := a.vals[i].TryString(); ok {
		return s, nil
	}
	return "", a.errorf(i, "string expected, got %s", typeName(a.vals[i]))
}

// optBool follows Lua truthiness; a missing argument is false.
func (a callArgs) optBool(i int) bool {
	if !a.has(i) {
		return false
	}
	if b, ok := a.vals[i].TryBool(); ok {
		return b
	}
	return true
}

func (a callArgs) table(i int) (*rt.Table, error) {
	if i < len(a.vals) {
		if t, ok := a.vals[i].TryTable(); ok {
			return t, nil
		}
		return nil, a.errorf(i, "table expected, got %s", typeName(a.vals[i]))
	}
	return nil, a.errorf(i, "table expected, got no value")
}

// argAs extracts the Go value of a userdata argument of the named class.
func argAs[T any](a callArgs, i int, class string) (T, error) {
	var zero T
	if i >= len(a.vals) {
		return zero, a.errorf(i, "%s expected, got no value", class)
	}
	if ud, ok := a.vals[i].TryUserData(); ok {
		if v, ok := ud.Value().(T); ok {
			return v, nil
		}
	}
	return zero, a.errorf(i, "%s expected, got %s", class, typeName(a.vals[i]))
}

func (a callArgs) vector(i int) (*graphics.Vector2, error) {
	return argAs[*graphics.Vector2](a, i, "Vector2")
}

func (a callArgs) matrix(i int) (*graphics.Matrix, error) {
	return argAs[*graphics.Matrix](a, i, "Matrix")
}

func (a callArgs) color(i int) (*color.Color, error) {
	return argAs[*color.Color](a, i, "Color")
}

func (a callArgs) surface(i int) (*graphics.Surface, error) {
	return argAs[*graphics.Surface](a, i, "Surface")
}

func (a callArgs) pattern(i int) (*graphics.Pattern, error) {
	return argAs[*graphics.Pattern](a, i, "Pattern")
}

func (a callArgs) context(i int) (*graphics.Context, error) {
	return argAs[*graphics.Context](a, i, "Context")
}

// floats reads n consecutive numbers starting at argument i.
func (a callArgs) floats(i, n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range out {
		f, err := a.float(i + k)
		if err != nil {
			return nil, err
		}
		out[k] = f
	}
	return out, nil
}

// typeName describes a value for error messages.
func typeName(v rt.Value) string {
	if v.IsNil() {
		return "nil"
	}
	if ud, ok := v.TryUserData(); ok {
		switch p := ud.Value().(type) {
		case *graphics.Vector2:
			return "Vector2"
		case *graphics.Matrix:
			return "Matrix"
		case *color.Color:
			return "Color"
		case *graphics.Surface:
			return "Surface"
		case *graphics.Pattern:
			return p.Kind().String()
		case *graphics.Context:
			return "Context"
		}
		return "userdata"
	}
	if _, ok := v.TryInt(); ok {
		return "number"
	}
	if _, ok := v.TryFloat(); ok {
		return "number"
	}
	if _, ok := v.TryString(); ok {
		return "string"
	}
	if _, ok := v.TryBool(); ok {
		return "boolean"
	}
	if _, ok := v.TryTable(); ok {
		return "table"
	}
	return "value"
}
