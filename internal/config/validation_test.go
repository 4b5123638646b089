package config

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Unit = "scene.lua"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.LogFormat = LogFormat(7)
	cfg.WatchDebounce = -time.Second
	cfg.Preview.Enabled = true
	cfg.Preview.Width = 0
	cfg.Preview.Height = 1 << 20
	cfg.CPUProfile = "same.prof"
	cfg.MemProfile = "same.prof"

	result := cfg.Check()
	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, f := range []string{"unit", "log_level", "log_format", "watch_debounce", "preview.width", "preview.height", "profile"} {
		if !fields[f] {
			t.Errorf("missing error for %s in %v", f, result.Errors)
		}
	}

	err := cfg.Validate()
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() = %v, want joined ValidationErrors", err)
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := Defaults()
	cfg.Unit = "u"
	cfg.CPULimit = 10
	cfg.IncludePaths = append(cfg.IncludePaths, "")

	result := cfg.Check()
	if !result.IsValid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2", result.Warnings)
	}
}

func TestPreviewIgnoredWhenDisabled(t *testing.T) {
	cfg := Defaults()
	cfg.Unit = "u"
	cfg.Preview.Width = -5
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled preview should not be validated: %v", err)
	}
}
