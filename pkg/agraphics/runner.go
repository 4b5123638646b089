package agraphics

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/opd-ai/agraphics/internal/graphics"
	"github.com/opd-ai/agraphics/internal/lua"
	"github.com/opd-ai/agraphics/internal/profiling"
)

// Thresholds above which heap or goroutine growth across watch-mode
// reruns is logged as a warning.
const (
	rerunHeapGrowthWarn      = 64 * profiling.MB
	rerunGoroutineGrowthWarn = 16
)

// Runner executes units. Runs are serialized; every run gets a fresh VM,
// so globals do not leak from one run to the next.
type Runner struct {
	opts    Options
	logger  Logger
	metrics *Metrics
	mu      sync.Mutex
}

// New creates a Runner. Zero-valued options fall back to DefaultOptions
// where noted on Options.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = NopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = DefaultWatchDebounce
	}
	return &Runner{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Metrics returns the runner's metrics collector.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Resolve maps a unit name to its file using the include paths.
func (r *Runner) Resolve(unit string) (string, error) {
	path, err := lua.FindUnit(unit, r.opts.IncludePaths)
	if err != nil {
		return "", classify(unit, err)
	}
	return path, nil
}

// Run executes unit once. Failures are returned as *UnitError.
// A unit that is already running is not interrupted by ctx.
func (r *Runner) Run(ctx context.Context, unit string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	err := r.execute(unit)
	elapsed := time.Since(start)
	r.metrics.RecordRun(elapsed, err)

	if err != nil {
		r.logger.Debug("unit failed", "unit", unit, "duration", elapsed, "error", err)
	} else {
		r.logger.Debug("unit finished", "unit", unit, "duration", elapsed)
	}
	return err
}

func (r *Runner) execute(unit string) error {
	vm, err := lua.New(lua.RuntimeConfig{
		CPULimit:     r.opts.CPULimit,
		MemoryLimit:  r.opts.MemoryLimit,
		Stdout:       r.opts.Stdout,
		IncludePaths: r.opts.IncludePaths,
	})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer vm.Close()

	var modOpts []lua.ModuleOption
	if show := r.opts.Show; show != nil {
		modOpts = append(modOpts, lua.WithShowFunc(func(s *graphics.Surface) error {
			return show(s.Snapshot())
		}))
	}
	if _, err := lua.NewModule(vm, modOpts...); err != nil {
		return fmt.Errorf("register %s module: %w", lua.ModuleName, err)
	}

	_, err = vm.ExecuteUnit(unit)
	return classify(unit, err)
}

// Watch runs unit, then runs it again after every change to its file
// until ctx is done. Each result, including the first, is passed to
// onResult. Watch returns nil when ctx is done, or an error if the unit
// cannot be resolved or watched.
func (r *Runner) Watch(ctx context.Context, unit string, onResult func(error)) error {
	path, err := r.Resolve(unit)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	report := func(err error) {
		if onResult != nil {
			onResult(err)
		}
	}

	baseline := profiling.TakeSnapshot()
	watcher, err := newUnitWatcher(path, r.opts.WatchDebounce,
		func() {
			if ctx.Err() != nil {
				return
			}
			r.metrics.IncrementReloads()
			r.logger.Info("unit changed, running again", "unit", path)
			report(r.Run(ctx, path))
			r.checkGrowth(baseline)
		},
		func(err error) {
			r.logger.Warn("file watch error", "unit", path, "error", err)
		},
	)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	watcher.Start()
	defer watcher.Stop()
	r.logger.Info("watching unit", "unit", path, "debounce", r.opts.WatchDebounce)

	report(r.Run(ctx, path))

	<-ctx.Done()
	return nil
}

// checkGrowth logs memory growth since the watch session began.
func (r *Runner) checkGrowth(baseline profiling.MemorySnapshot) {
	growth := baseline.Growth(profiling.TakeSnapshot())
	args := []any{
		"heap_delta", profiling.FormatBytes(growth.HeapAllocDelta),
		"goroutine_delta", growth.GoroutineDelta,
		"since", growth.Duration.Round(time.Second),
	}
	if growth.Suspicious(rerunHeapGrowthWarn, rerunGoroutineGrowthWarn) {
		r.logger.Warn("memory keeps growing across reruns", args...)
		return
	}
	r.logger.Debug("memory after rerun", args...)
}
