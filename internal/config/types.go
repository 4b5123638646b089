// Package config provides configuration data structures for agraphics.
// Values come from defaults, then the environment, then command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config represents the complete agraphics configuration.
type Config struct {
	// Unit is the script to run, as a path or a name resolved against
	// IncludePaths.
	Unit string
	// IncludePaths are searched, in order, for units and required modules.
	IncludePaths []string
	// CPULimit is the Lua instruction limit per run. 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the Lua memory limit in bytes per run. 0 means unlimited.
	MemoryLimit uint64
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
	// LogFormat selects the log handler.
	LogFormat LogFormat
	// Watch re-runs the unit whenever its file changes.
	Watch bool
	// WatchDebounce coalesces bursts of file events.
	WatchDebounce time.Duration
	// Preview contains settings for the preview window.
	Preview PreviewConfig
	// CPUProfile is the output path of a CPU profile, if any.
	CPUProfile string
	// MemProfile is the output path of a heap profile, if any.
	MemProfile string
}

// PreviewConfig holds preview window settings.
type PreviewConfig struct {
	// Enabled opens a window showing surfaces passed to agraphics.show.
	Enabled bool
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// KeepAbove asks the window manager to keep the window on top.
	KeepAbove bool
}

// LogFormat selects between human-readable and structured log output.
type LogFormat int

const (
	// LogFormatAuto uses text on a terminal and JSON otherwise.
	LogFormatAuto LogFormat = iota
	// LogFormatText writes key=value lines.
	LogFormatText
	// LogFormatJSON writes one JSON object per line.
	LogFormatJSON
)

// String returns the string representation of a LogFormat.
func (f LogFormat) String() string {
	switch f {
	case LogFormatAuto:
		return "auto"
	case LogFormatText:
		return "text"
	case LogFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseLogFormat converts a string to a LogFormat.
func ParseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return LogFormatAuto, nil
	case "text":
		return LogFormatText, nil
	case "json":
		return LogFormatJSON, nil
	default:
		return LogFormatAuto, fmt.Errorf("unknown log format: %s", s)
	}
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}
