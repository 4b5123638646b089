package graphics

import (
	"fmt"
	"math"
)

// Matrix is a 2D affine transformation laid out like cairo_matrix_t:
//
//	x' = XX*x + XY*y + X0
//	y' = YX*x + YY*y + Y0
type Matrix struct {
	XX, YX float64
	XY, YY float64
	X0, Y0 float64
}

// NewIdentityMatrix returns the identity transformation.
func NewIdentityMatrix() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// NewTranslateMatrix returns a matrix translating by (tx, ty).
func NewTranslateMatrix(tx, ty float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: tx, Y0: ty}
}

// NewScaleMatrix returns a matrix scaling by (sx, sy).
func NewScaleMatrix(sx, sy float64) Matrix {
	return Matrix{XX: sx, YY: sy}
}

// NewRotateMatrix returns a matrix rotating by angle radians. With the
// y axis pointing down, positive angles rotate clockwise on screen.
func NewRotateMatrix(angle float64) Matrix {
	s, c := math.Sincos(angle)
	return Matrix{XX: c, YX: s, XY: -s, YY: c}
}

// Translate prepends a translation: the translation is applied to
// coordinates before the existing transformation.
func (m *Matrix) Translate(tx, ty float64) {
	m.X0 += m.XX*tx + m.XY*ty
	m.Y0 += m.YX*tx + m.YY*ty
}

// Scale prepends a scale.
func (m *Matrix) Scale(sx, sy float64) {
	m.XX *= sx
	m.YX *= sx
	m.XY *= sy
	m.YY *= sy
}

// Rotate prepends a rotation by angle radians.
func (m *Matrix) Rotate(angle float64) {
	*m = Multiply(NewRotateMatrix(angle), *m)
}

// Multiply returns the transformation that applies a first and then b.
func Multiply(a, b Matrix) Matrix {
	return Matrix{
		XX: b.XX*a.XX + b.XY*a.YX,
		YX: b.YX*a.XX + b.YY*a.YX,
		XY: b.XX*a.XY + b.XY*a.YY,
		YY: b.YX*a.XY + b.YY*a.YY,
		X0: b.XX*a.X0 + b.XY*a.Y0 + b.X0,
		Y0: b.YX*a.X0 + b.YY*a.Y0 + b.Y0,
	}
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.XX*m.YY - m.XY*m.YX
}

// Invert replaces m with its inverse. A singular or non-finite matrix
// yields ErrMatrixNotInvertible and leaves m unchanged.
func (m *Matrix) Invert() error {
	inv, err := m.Inverse()
	if err != nil {
		return err
	}
	*m = inv
	return nil
}

// Inverse returns the inverse of m.
func (m Matrix) Inverse() (Matrix, error) {
	det := m.Determinant()
	if det == 0 || math.IsInf(det, 0) || math.IsNaN(det) {
		return m, ErrMatrixNotInvertible
	}
	if math.IsInf(m.X0, 0) || math.IsNaN(m.X0) || math.IsInf(m.Y0, 0) || math.IsNaN(m.Y0) {
		return m, ErrMatrixNotInvertible
	}
	inv := 1 / det
	return Matrix{
		XX: m.YY * inv,
		YX: -m.YX * inv,
		XY: -m.XY * inv,
		YY: m.XX * inv,
		X0: (m.XY*m.Y0 - m.YY*m.X0) * inv,
		Y0: (m.YX*m.X0 - m.XX*m.Y0) * inv,
	}, nil
}

// TransformPoint maps (x, y) through m.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}

// TransformDistance maps the vector (dx, dy) through the linear part of m.
func (m Matrix) TransformDistance(dx, dy float64) (float64, float64) {
	return m.XX*dx + m.XY*dy, m.YX*dx + m.YY*dy
}

// ScaleFactor returns the geometric mean scale of m, sqrt(|det|).
// Line widths and dash lengths are converted to device space with it.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == NewIdentityMatrix()
}

func (m Matrix) String() string {
	return fmt.Sprintf("Matrix(xx=%g, yx=%g, xy=%g, yy=%g, x0=%g, y0=%g)",
		m.XX, m.YX, m.XY, m.YY, m.X0, m.Y0)
}
