// Package profiling provides CPU and heap profiling for agraphics runs
// and memory snapshots for spotting growth across watch-mode reruns.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Errors returned by Profiler.
var (
	ErrAlreadyRunning = errors.New("profiler is already running")
	ErrNotRunning     = errors.New("profiler is not running")
)

// Config holds configuration for the profiler.
type Config struct {
	// CPUProfilePath is the file path for CPU profile output.
	// If empty, CPU profiling is disabled.
	CPUProfilePath string

	// MemProfilePath is the file path for the heap profile written on Stop.
	// If empty, memory profiling is disabled.
	MemProfilePath string
}

// Enabled returns true if any profiling is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler manages one profiling session. It is safe for concurrent use.
type Profiler struct {
	config  Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// New creates a Profiler. Call Start to begin profiling.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start begins CPU profiling if a CPU profile path was configured.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.config.CPUProfilePath != "" {
		f, err := os.Create(p.config.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile if configured.
// Every failure is reported in the joined error.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
		p.cpuFile = nil
	}
	if p.config.MemProfilePath != "" {
		if err := WriteHeapProfile(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsRunning returns true between Start and Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile forces a collection and writes a heap profile to path.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create memory profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write memory profile: %w", err)
	}
	return nil
}
