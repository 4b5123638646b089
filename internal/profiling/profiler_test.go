package profiling

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		config Config
		want   bool
	}{
		{Config{}, false},
		{Config{CPUProfilePath: "cpu.prof"}, true},
		{Config{MemProfilePath: "mem.prof"}, true},
	}
	for _, tt := range tests {
		if got := tt.config.Enabled(); got != tt.want {
			t.Errorf("%+v.Enabled() = %v, want %v", tt.config, got, tt.want)
		}
	}
}

func TestProfilerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	cpuPath := filepath.Join(tmpDir, "cpu.prof")
	memPath := filepath.Join(tmpDir, "mem.prof")

	p := New(Config{CPUProfilePath: cpuPath, MemProfilePath: memPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("IsRunning() should return true after Start()")
	}
	if err := p.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() should return false after Stop()")
	}

	for _, path := range []string{cpuPath, memPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("profile %s not written: %v", filepath.Base(path), err)
		}
	}
}

func TestProfilerStopWithoutStart(t *testing.T) {
	p := New(Config{})
	if err := p.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() = %v, want ErrNotRunning", err)
	}
}

func TestProfilerBadPath(t *testing.T) {
	p := New(Config{CPUProfilePath: filepath.Join(t.TempDir(), "missing", "cpu.prof")})
	if err := p.Start(); err == nil {
		p.Stop()
		t.Fatal("Start() should fail for an unwritable path")
	}
	if p.IsRunning() {
		t.Error("failed Start() left the profiler running")
	}
}

func TestProfilerConcurrentIsRunning(t *testing.T) {
	p := New(Config{})
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.IsRunning()
		}()
	}
	wg.Wait()
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotGrowth(t *testing.T) {
	before := MemorySnapshot{Timestamp: time.Unix(0, 0), HeapAlloc: 10 * MB, HeapObjects: 100, GoroutineCount: 4}
	after := MemorySnapshot{Timestamp: time.Unix(5, 0), HeapAlloc: 8 * MB, HeapObjects: 150, GoroutineCount: 20}

	g := before.Growth(after)
	if g.Duration != 5*time.Second {
		t.Errorf("Duration = %v", g.Duration)
	}
	if g.HeapAllocDelta != -2*MB {
		t.Errorf("HeapAllocDelta = %d", g.HeapAllocDelta)
	}
	if g.HeapObjectsDelta != 50 || g.GoroutineDelta != 16 {
		t.Errorf("deltas = %d objects, %d goroutines", g.HeapObjectsDelta, g.GoroutineDelta)
	}
	if !g.Suspicious(0, 10) {
		t.Error("goroutine growth above threshold should be suspicious")
	}
	if g.Suspicious(MB, 0) {
		t.Error("shrinking heap should not be suspicious")
	}

	if s := TakeSnapshot(); s.GoroutineCount < 1 || s.Timestamp.IsZero() {
		t.Errorf("TakeSnapshot() = %+v", s)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2 * KB, "2.00 KB"},
		{3 * MB / 2, "1.50 MB"},
		{GB, "1.00 GB"},
		{-4 * KB, "-4.00 KB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
