package agraphics

import (
	"errors"
	"fmt"

	"github.com/opd-ai/agraphics/internal/lua"
)

// Errors that a *UnitError may wrap.
var (
	// ErrUnitNotFound means the unit could not be resolved to a file.
	ErrUnitNotFound = lua.ErrUnitNotFound
	// ErrLimitExceeded means the unit ran past its CPU or memory limit.
	ErrLimitExceeded = lua.ErrLimitExceeded
)

// ErrorKind classifies why a unit failed.
type ErrorKind int

const (
	// KindNotFound means the unit does not exist.
	KindNotFound ErrorKind = iota
	// KindCompile means the unit is not valid Lua.
	KindCompile
	// KindRuntime means the unit raised an error while running.
	KindRuntime
)

// String returns a human-readable representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindCompile:
		return "compile"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// UnitError reports a failed unit run.
type UnitError struct {
	Kind ErrorKind
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	if e.Kind == KindNotFound {
		return fmt.Sprintf("unit not found: %s", e.Unit)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// classify maps errors from the Lua runtime to a *UnitError.
func classify(unit string, err error) error {
	var (
		cerr *lua.CompileError
		rerr *lua.RuntimeError
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lua.ErrUnitNotFound):
		return &UnitError{Kind: KindNotFound, Unit: unit, Err: err}
	case errors.As(err, &cerr):
		return &UnitError{Kind: KindCompile, Unit: unit, Err: cerr.Err}
	case errors.As(err, &rerr):
		return &UnitError{Kind: KindRuntime, Unit: unit, Err: rerr.Err}
	default:
		return &UnitError{Kind: KindRuntime, Unit: unit, Err: err}
	}
}
