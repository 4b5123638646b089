// Package agraphics runs Lua units against the agraphics drawing API.
//
// A Runner executes a unit in a fresh Lua VM with the agraphics module
// registered, maps failures to *UnitError, and can re-run the unit each
// time its file changes.
//
// Example:
//
//	opts := agraphics.DefaultOptions()
//	opts.IncludePaths = append(opts.IncludePaths, "/usr/share/agraphics")
//	runner := agraphics.New(opts)
//	if err := runner.Run(ctx, "scene"); err != nil {
//		log.Fatal(err)
//	}
package agraphics

import (
	"image"
	"io"
	"os"
	"time"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 100 * time.Millisecond

// ShowFunc receives a copy of every surface a unit passes to agraphics.show.
type ShowFunc func(img image.Image) error

// Options configures a Runner.
type Options struct {
	// IncludePaths are searched, in order, for units and required modules.
	IncludePaths []string

	// CPULimit is the Lua instruction limit per run. Zero means unlimited.
	CPULimit uint64

	// MemoryLimit is the Lua memory limit in bytes per run.
	// Zero means unlimited.
	MemoryLimit uint64

	// Stdout receives output of the Lua print function.
	// If nil, output is discarded.
	Stdout io.Writer

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics collects run counters and latencies.
	// If nil, a new Metrics is created.
	Metrics *Metrics

	// Show displays surfaces passed to agraphics.show.
	// If nil, show does nothing.
	Show ShowFunc

	// WatchDebounce sets the debounce interval for file change events
	// in Watch. Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludePaths:  []string{"."},
		Stdout:        os.Stdout,
		WatchDebounce: DefaultWatchDebounce,
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
