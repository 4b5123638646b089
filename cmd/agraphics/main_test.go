package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/agraphics/internal/config"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeUnit(t *testing.T, dir, name, code string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr, env(nil)); code != 0 {
		t.Fatalf("run(-v) = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestMissingUnitPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr, env(nil)); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage: agraphics") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRunUnit(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "hello.lua", `
local c = agraphics.Color.new(0.5, 0.5, 0.5):darker(0.5)
print(c:to_hex())
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-I", dir, "-log-format", "text", "hello"}, &stdout, &stderr, env(nil))
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "#404040" {
		t.Errorf("stdout = %q, want #404040", got)
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "raises.lua", `error("bad scene")`)

	tests := []struct {
		unit string
		want []string
	}{
		{"ghost", []string{"Could not find agraphics unit 'ghost'."}},
		{"raises", []string{"bad scene", "Error in the agraphics unit 'raises'."}},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run([]string{"-I", dir, tt.unit}, &stdout, &stderr, env(nil)); code != 1 {
				t.Errorf("run() = %d, want 1", code)
			}
			for _, want := range tt.want {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr = %q, want %q", stderr.String(), want)
				}
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	cfg, version, err := parseFlags([]string{
		"-I", "first", "-I", "second",
		"-cpu-limit", "20000",
		"-mem-limit", "32M",
		"-preview", "-preview-size", "320x200", "-above",
		"-log-level", "debug", "-log-format", "json",
		"-watch",
		"scene",
	}, &stderr, env(map[string]string{
		config.EnvPath:     "/env/units",
		config.EnvCPULimit: "5000",
	}))
	if err != nil || version {
		t.Fatalf("parseFlags() = %v, version=%v", err, version)
	}

	wantPaths := []string{"first", "second", ".", "/env/units"}
	if strings.Join(cfg.IncludePaths, ",") != strings.Join(wantPaths, ",") {
		t.Errorf("IncludePaths = %v, want %v", cfg.IncludePaths, wantPaths)
	}
	if cfg.Unit != "scene" {
		t.Errorf("Unit = %q", cfg.Unit)
	}
	if cfg.CPULimit != 20000 {
		t.Errorf("flag should override env CPU limit, got %d", cfg.CPULimit)
	}
	if cfg.MemoryLimit != 32<<20 {
		t.Errorf("MemoryLimit = %d", cfg.MemoryLimit)
	}
	if !cfg.Preview.Enabled || !cfg.Preview.KeepAbove || cfg.Preview.Width != 320 || cfg.Preview.Height != 200 {
		t.Errorf("Preview = %+v", cfg.Preview)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != config.LogFormatJSON || !cfg.Watch {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseFlagsEnvDefaults(t *testing.T) {
	var stderr bytes.Buffer
	cfg, _, err := parseFlags([]string{"scene"}, &stderr, env(map[string]string{
		config.EnvCPULimit: "5000",
		config.EnvLogLevel: "warn",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CPULimit != 5000 || cfg.LogLevel != "warn" {
		t.Errorf("env values not used as defaults: cpu=%d level=%q", cfg.CPULimit, cfg.LogLevel)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad preview size", []string{"-preview-size", "big", "u"}, nil},
		{"bad memory limit", []string{"-mem-limit", "lots", "u"}, nil},
		{"bad log format", []string{"-log-format", "xml", "u"}, nil},
		{"bad log level", []string{"-log-level", "loud", "u"}, nil},
		{"zero preview size", []string{"-preview", "-preview-size", "0x10", "u"}, nil},
		{"two units", []string{"a", "b"}, nil},
		{"unknown flag", []string{"-nope", "u"}, nil},
		{"bad env", []string{"u"}, map[string]string{config.EnvCPULimit: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if _, _, err := parseFlags(tt.args, &stderr, env(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"640x480", 640, 480, false},
		{"10X20", 10, 20, false},
		{"640", 0, 0, true},
		{"ax1", 0, 0, true},
		{"1xb", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr || w != tt.w || h != tt.h {
			t.Errorf("parseSize(%q) = %d, %d, %v", tt.in, w, h, err)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	tests := []struct {
		format config.LogFormat
		prefix string
	}{
		{config.LogFormatAuto, "{"},
		{config.LogFormatJSON, "{"},
		{config.LogFormatText, "time="},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			cfg := config.Defaults()
			cfg.LogFormat = tt.format
			newLogger(cfg, &buf).Info("hello")
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("output = %q, want prefix %q", buf.String(), tt.prefix)
			}
		})
	}
}
