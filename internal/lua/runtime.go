// Package lua embeds a Golua virtual machine and exposes the agraphics
// drawing API to scripts. Scripts are loaded as units: a unit is a Lua file
// resolved against a list of include paths.
package lua

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit for Lua execution.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes that Lua can allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout is the writer for Lua print output.
	// If nil, output is only captured.
	Stdout io.Writer
	// IncludePaths are searched, in order, when resolving units.
	IncludePaths []string
}

// DefaultConfig returns a RuntimeConfig for batch rendering.
// Limits are off: a single unit may legitimately rasterize large surfaces.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Stdout:       os.Stdout,
		IncludePaths: []string{"."},
	}
}

// Runtime wraps a Golua runtime with unit loading and resource limits.
// It provides thread-safe access to Lua execution.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	include []string
	mu      sync.RWMutex
}

// New creates a new Runtime with the specified configuration.
// The runtime is initialized with the Lua standard libraries.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	stdout := io.Writer(output)
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	r := &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}
	for _, dir := range config.IncludePaths {
		r.addIncludePath(dir)
	}
	r.syncPackagePath()

	return r, nil
}

// AddIncludePath appends a directory to the unit search list.
// Duplicates are ignored.
func (r *Runtime) AddIncludePath(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addIncludePath(dir)
	r.syncPackagePath()
}

func (r *Runtime) addIncludePath(dir string) {
	if dir == "" {
		return
	}
	dir = filepath.Clean(dir)
	for _, d := range r.include {
		if d == dir {
			return
		}
	}
	r.include = append(r.include, dir)
}

// IncludePaths returns a copy of the unit search list.
func (r *Runtime) IncludePaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.include...)
}

// syncPackagePath points package.path at the include directories so that
// units can require each other.
func (r *Runtime) syncPackagePath() {
	pkg, ok := r.packageTable()
	if !ok {
		return
	}
	patterns := make([]string, 0, 2*len(r.include))
	for _, dir := range r.include {
		patterns = append(patterns,
			filepath.Join(dir, "?.lua"),
			filepath.Join(dir, "?", "init.lua"))
	}
	pkg.Set(rt.StringValue("path"), rt.StringValue(strings.Join(patterns, ";")))
}

// packageTable returns the Lua package table when the package library is
// loaded.
func (r *Runtime) packageTable() (*rt.Table, bool) {
	pkgVal := r.runtime.GlobalEnv().Get(rt.StringValue("package"))
	if pkgVal.IsNil() {
		pkgVal = r.runtime.Registry(rt.StringValue("package"))
	}
	if pkgVal.IsNil() {
		return nil, false
	}
	return pkgVal.TryTable()
}

// ResolveUnit maps a unit name to a file using the runtime's include
// paths. See FindUnit.
func (r *Runtime) ResolveUnit(name string) (string, error) {
	r.mu.RLock()
	dirs := append([]string(nil), r.include...)
	r.mu.RUnlock()

	return FindUnit(name, dirs)
}

// FindUnit maps a unit name to a file. An existing path is used as is;
// otherwise <dir>/<name> and <dir>/<name>.lua are tried for every
// directory, then <name>.lua.
func FindUnit(name string, dirs []string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty unit name", ErrUnitNotFound)
	}
	if isFile(name) {
		return name, nil
	}
	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			if dir == "" {
				continue
			}
			for _, candidate := range []string{name, name + ".lua"} {
				p := filepath.Join(dir, candidate)
				if isFile(p) {
					return p, nil
				}
			}
		}
	}
	if !strings.HasSuffix(name, ".lua") && isFile(name+".lua") {
		return name + ".lua", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnitNotFound, name)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// LoadString compiles and loads a Lua code string.
// The returned Closure can be executed using Execute.
func (r *Runtime) LoadString(name, code string) (*rt.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		[]byte(code),
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, &CompileError{Unit: name, Err: err}
	}

	return closure, nil
}

// LoadFile reads and loads a Lua file from disk.
func (r *Runtime) LoadFile(path string) (*rt.Closure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, path)
		}
		return nil, fmt.Errorf("failed to read Lua file %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		path,
		content,
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, &CompileError{Unit: path, Err: err}
	}

	return closure, nil
}

// Execute runs a compiled Lua closure within resource limits.
func (r *Runtime) Execute(closure *rt.Closure) (rt.Value, error) {
	return r.execute("", closure)
}

func (r *Runtime) execute(unit string, closure *rt.Closure) (rt.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.call(unit, rt.FunctionValue(closure))
}

// call runs fn on the main thread with the configured hard limits.
// Golua panics with a ContextTerminationError when a hard limit is
// exceeded; that panic is reported as a RuntimeError wrapping
// ErrLimitExceeded. Any other panic becomes a plain RuntimeError. The
// caller holds the lock.
func (r *Runtime) call(unit string, fn rt.Value, args ...rt.Value) (result rt.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = rt.NilValue
			if term, ok := p.(rt.ContextTerminationError); ok {
				err = &RuntimeError{Unit: unit, Err: fmt.Errorf("%w: %v", ErrLimitExceeded, term)}
				return
			}
			err = &RuntimeError{Unit: unit, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	}
	r.runtime.PushContext(ctx)
	defer r.runtime.PopContext()

	result, err = rt.Call1(r.runtime.MainThread(), fn, args...)
	if err != nil {
		return rt.NilValue, &RuntimeError{Unit: unit, Err: err}
	}
	return result, nil
}

// ExecuteString compiles and executes a Lua code string.
func (r *Runtime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := r.LoadString(name, code)
	if err != nil {
		return rt.NilValue, err
	}
	return r.execute(name, closure)
}

// ExecuteFile loads and executes a Lua file.
func (r *Runtime) ExecuteFile(path string) (rt.Value, error) {
	closure, err := r.LoadFile(path)
	if err != nil {
		return rt.NilValue, err
	}
	return r.execute(path, closure)
}

// ExecuteUnit resolves a unit against the include paths and executes it.
// The unit's directory is added to the include paths first so that sibling
// units can be required.
func (r *Runtime) ExecuteUnit(name string) (rt.Value, error) {
	path, err := r.ResolveUnit(name)
	if err != nil {
		return rt.NilValue, err
	}
	r.AddIncludePath(filepath.Dir(path))
	return r.ExecuteFile(path)
}

// GetGlobal retrieves a global variable from the Lua environment.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal sets a global variable in the Lua environment.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// SetGoFunction registers a Go function in the Lua global environment.
func (r *Runtime) SetGoFunction(name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runtime.GlobalEnv().Set(rt.StringValue(name), rt.FunctionValue(newGoFunction(name, fn, nArgs, hasVarArgs)))
}

// newGoFunction wraps fn and declares it safe to run under resource limits.
func newGoFunction(name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) *rt.GoFunction {
	goFunc := rt.NewGoFunction(fn, name, nArgs, hasVarArgs)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, goFunc)
	return goFunc
}

// CallFunction calls a Lua function by name with the given arguments.
func (r *Runtime) CallFunction(name string, args ...rt.Value) (rt.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn := r.runtime.GlobalEnv().Get(rt.StringValue(name))
	if fn == rt.NilValue {
		return rt.NilValue, fmt.Errorf("function %s not found", name)
	}
	return r.call(name, fn, args...)
}

// Output returns the captured output from Lua print statements.
func (r *Runtime) Output() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.output.String()
}

// ClearOutput clears the captured output buffer.
func (r *Runtime) ClearOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.output.Reset()
}

// Config returns the runtime configuration.
func (r *Runtime) Config() RuntimeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config
}

// Close releases resources associated with the runtime.
// The runtime should not be used after calling Close.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}

	return nil
}
