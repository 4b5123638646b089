package lua

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRuntime is returned when a nil runtime is passed to a function that requires one.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrUnitNotFound is returned when a unit cannot be resolved against the include paths.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrLimitExceeded is wrapped when a script runs past its CPU or memory limit.
	ErrLimitExceeded = errors.New("resource limit exceeded")

	// errInvert is raised by Matrix:invert. Scripts match on the message.
	errInvert = errors.New("Unable to invert the matrix")
)

// CompileError reports a unit that failed to parse or compile.
type CompileError struct {
	Unit string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Unit, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// RuntimeError reports a unit that raised an error while executing.
type RuntimeError struct {
	Unit string
	Err  error
}

func (e *RuntimeError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("Lua execution error: %v", e.Err)
	}
	return fmt.Sprintf("run %s: %v", e.Unit, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
