package agraphics

import (
	"errors"
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics counts unit runs. It is safe for concurrent use.
//
// Metrics can be exposed at /debug/vars through RegisterExpvar when the
// host runs an HTTP server.
type Metrics struct {
	runs          atomic.Int64
	failures      atomic.Int64
	notFound      atomic.Int64
	compileErrors atomic.Int64
	runtimeErrors atomic.Int64
	reloads       atomic.Int64

	// Latency tracking (stored as nanoseconds)
	lastRunNs  atomic.Int64
	totalRunNs atomic.Int64

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRun records a finished run and classifies err, if any.
func (m *Metrics) RecordRun(d time.Duration, err error) {
	m.runs.Add(1)
	m.lastRunNs.Store(int64(d))
	m.totalRunNs.Add(int64(d))
	if err == nil {
		return
	}
	m.failures.Add(1)

	var uerr *UnitError
	if !errors.As(err, &uerr) {
		return
	}
	switch uerr.Kind {
	case KindNotFound:
		m.notFound.Add(1)
	case KindCompile:
		m.compileErrors.Add(1)
	case KindRuntime:
		m.runtimeErrors.Add(1)
	}
}

// IncrementReloads records a re-run triggered by a file change.
func (m *Metrics) IncrementReloads() {
	m.reloads.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Runs          int64
	Failures      int64
	NotFound      int64
	CompileErrors int64
	RuntimeErrors int64
	Reloads       int64

	LastRun    time.Duration
	AverageRun time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	runs := m.runs.Load()
	return MetricsSnapshot{
		Runs:          runs,
		Failures:      m.failures.Load(),
		NotFound:      m.notFound.Load(),
		CompileErrors: m.compileErrors.Load(),
		RuntimeErrors: m.runtimeErrors.Load(),
		Reloads:       m.reloads.Load(),
		LastRun:       time.Duration(m.lastRunNs.Load()),
		AverageRun:    safeDivide(m.totalRunNs.Load(), runs),
	}
}

// RegisterExpvar publishes the counters under agraphics_* names.
// Safe to call multiple times; subsequent calls are no-ops. Only one
// Metrics per process may be registered.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	expvar.Publish("agraphics_runs_total", expvar.Func(func() any { return m.runs.Load() }))
	expvar.Publish("agraphics_failures_total", expvar.Func(func() any { return m.failures.Load() }))
	expvar.Publish("agraphics_reloads_total", expvar.Func(func() any { return m.reloads.Load() }))
	expvar.Publish("agraphics_run_avg_ms", expvar.Func(func() any {
		return float64(safeDivide(m.totalRunNs.Load(), m.runs.Load())) / 1e6
	}))
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
