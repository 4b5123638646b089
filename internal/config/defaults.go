package config

import "time"

// Default values for configuration options.
const (
	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"
	// DefaultWatchDebounce is the default delay before re-running a changed unit.
	DefaultWatchDebounce = 100 * time.Millisecond
	// DefaultPreviewWidth is the default preview window width in pixels.
	DefaultPreviewWidth = 640
	// DefaultPreviewHeight is the default preview window height in pixels.
	DefaultPreviewHeight = 480
	// DefaultPreviewTitle is the default preview window title.
	DefaultPreviewTitle = "agraphics"
)

// Environment variables read by ApplyEnv.
const (
	EnvPath        = "AGRAPHICS_PATH"
	EnvCPULimit    = "AGRAPHICS_CPU_LIMIT"
	EnvMemoryLimit = "AGRAPHICS_MEMORY_LIMIT"
	EnvLogLevel    = "AGRAPHICS_LOG_LEVEL"
)

// Defaults returns a Config with default values.
// Resource limits are off: batch rendering of large surfaces is expected.
func Defaults() Config {
	return Config{
		IncludePaths:  []string{"."},
		LogLevel:      DefaultLogLevel,
		LogFormat:     LogFormatAuto,
		WatchDebounce: DefaultWatchDebounce,
		Preview: PreviewConfig{
			Width:  DefaultPreviewWidth,
			Height: DefaultPreviewHeight,
			Title:  DefaultPreviewTitle,
		},
	}
}
