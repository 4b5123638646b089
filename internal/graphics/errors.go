package graphics

import "errors"

// Sentinel errors returned by the drawing engine.
var (
	// ErrMatrixNotInvertible is returned when a matrix has a zero or
	// non-finite determinant.
	ErrMatrixNotInvertible = errors.New("matrix is not invertible")

	// ErrInvalidSurfaceSize is returned when a surface dimension is not
	// positive or exceeds MaxSurfaceDimension.
	ErrInvalidSurfaceSize = errors.New("invalid surface size")

	// ErrSurfaceDestroyed is returned when drawing to or exporting a
	// surface after Destroy.
	ErrSurfaceDestroyed = errors.New("surface has been destroyed")

	// ErrNotGradient is returned when a color stop is added to a
	// non-gradient pattern.
	ErrNotGradient = errors.New("pattern is not a gradient")

	// ErrInvalidRestore is returned by Restore without a matching Save.
	ErrInvalidRestore = errors.New("restore without matching save")

	// ErrInvalidPopGroup is returned by PopGroupToSource without a
	// matching PushGroup.
	ErrInvalidPopGroup = errors.New("pop_group without matching push_group")

	// ErrInvalidEnum is returned when an enum value is out of range.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrNilArgument is returned when a required surface, pattern or
	// matrix argument is nil.
	ErrNilArgument = errors.New("nil argument")
)

// Path errors.
var (
	// ErrNoCurrentPoint is returned by relative path operations when the
	// path has no current point.
	ErrNoCurrentPoint = errors.New("no current point")

	// ErrInvalidDash is returned for negative dash lengths or a dash
	// pattern whose lengths are all zero.
	ErrInvalidDash = errors.New("invalid dash pattern")
)
