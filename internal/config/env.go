package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string using the
// process environment. Unset variables without defaults expand to "".
func ExpandEnv(s string) string {
	return ExpandEnvFunc(s, os.Getenv)
}

// ExpandEnvFunc is ExpandEnv with an explicit lookup function.
func ExpandEnvFunc(s string, getenv func(string) string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			// VAR:-default
			if idx := strings.Index(inner, ":-"); idx >= 0 {
				if val := getenv(inner[:idx]); val != "" {
					return val
				}
				return inner[idx+2:]
			}
			return getenv(inner)
		}
		return getenv(match[1:])
	})
}

// ApplyEnv overlays AGRAPHICS_* environment variables on cfg and expands
// variable references in path settings. A nil getenv uses os.Getenv.
// Every malformed variable is reported in the joined error; valid ones are
// still applied.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	var errs []error
	if v := getenv(EnvPath); v != "" {
		for _, dir := range filepath.SplitList(v) {
			if dir != "" {
				cfg.IncludePaths = append(cfg.IncludePaths, dir)
			}
		}
	}
	if v := getenv(EnvCPULimit); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCPULimit, err))
		} else {
			cfg.CPULimit = n
		}
	}
	if v := getenv(EnvMemoryLimit); v != "" {
		n, err := ParseSize(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMemoryLimit, err))
		} else {
			cfg.MemoryLimit = n
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	for i, dir := range cfg.IncludePaths {
		cfg.IncludePaths[i] = ExpandEnvFunc(dir, getenv)
	}
	cfg.Unit = ExpandEnvFunc(cfg.Unit, getenv)
	cfg.CPUProfile = ExpandEnvFunc(cfg.CPUProfile, getenv)
	cfg.MemProfile = ExpandEnvFunc(cfg.MemProfile, getenv)

	return errors.Join(errs...)
}

// ParseSize parses a byte count with an optional K, M or G suffix
// (binary multiples), e.g. "512M".
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimSuffix(s, "B")
	mult := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}
