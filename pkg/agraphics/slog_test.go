package agraphics

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	adapter := NewSlogAdapter(slog.New(handler))

	tests := []struct {
		name string
		log  func()
		want []string
	}{
		{"debug", func() { adapter.Debug("debug message", "key", "value") }, []string{"level=DEBUG", "debug message", "key=value"}},
		{"info", func() { adapter.Info("info message", "count", 42) }, []string{"level=INFO", "count=42"}},
		{"warn", func() { adapter.Warn("warn message") }, []string{"level=WARN", "warn message"}},
		{"error", func() { adapter.Error("error message", "err", "something failed") }, []string{"level=ERROR", `err="something failed"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q does not contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestNewSlogAdapterNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter == nil {
		t.Fatal("NewSlogAdapter(nil) returned nil")
	}
	if adapter.Slog() == nil {
		t.Error("NewSlogAdapter(nil) should use slog.Default()")
	}
}

func TestTextLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := TextLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info message logged at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := JSONLogger(&buf, slog.LevelInfo)

	logger.Debug("filtered")
	logger.Info("test message", "key", "value", "number", 123)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a single JSON object: %v: %q", err, buf.String())
	}
	if entry["msg"] != "test message" || entry["key"] != "value" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if n, ok := entry["number"].(float64); !ok || n != 123 {
		t.Errorf("number = %v", entry["number"])
	}
}

func TestDefaultAndNopLoggers(t *testing.T) {
	for _, logger := range []Logger{DefaultLogger(), NopLogger(), JSONLogger(nil, slog.LevelError)} {
		if logger == nil {
			t.Fatal("logger constructor returned nil")
		}
		logger.Debug("test debug")
		logger.Info("test info")
		logger.Warn("test warn")
		logger.Error("test error")
	}
}
