package profiling

import (
	"fmt"
	"runtime"
	"time"
)

// Byte size constants for memory formatting.
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// MemorySnapshot is a point-in-time memory measurement.
type MemorySnapshot struct {
	Timestamp      time.Time
	HeapAlloc      uint64 // bytes of allocated heap objects
	HeapObjects    uint64
	GoroutineCount int
	NumGC          uint32
}

// TakeSnapshot captures the current memory state.
func TakeSnapshot() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemorySnapshot{
		Timestamp:      time.Now(),
		HeapAlloc:      ms.HeapAlloc,
		HeapObjects:    ms.HeapObjects,
		GoroutineCount: runtime.NumGoroutine(),
		NumGC:          ms.NumGC,
	}
}

// MemoryGrowth is the difference between two snapshots.
type MemoryGrowth struct {
	Duration         time.Duration
	HeapAllocDelta   int64
	HeapObjectsDelta int64
	GoroutineDelta   int
}

// Growth returns the change from s to later.
func (s MemorySnapshot) Growth(later MemorySnapshot) MemoryGrowth {
	return MemoryGrowth{
		Duration:         later.Timestamp.Sub(s.Timestamp),
		HeapAllocDelta:   int64(later.HeapAlloc) - int64(s.HeapAlloc),
		HeapObjectsDelta: int64(later.HeapObjects) - int64(s.HeapObjects),
		GoroutineDelta:   later.GoroutineCount - s.GoroutineCount,
	}
}

// Suspicious reports whether the growth exceeds either threshold.
// A zero threshold disables that check.
func (g MemoryGrowth) Suspicious(heapBytes int64, goroutines int) bool {
	return (heapBytes > 0 && g.HeapAllocDelta > heapBytes) ||
		(goroutines > 0 && g.GoroutineDelta > goroutines)
}

// FormatBytes formats a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	switch {
	case n >= GB:
		return fmt.Sprintf("%s%.2f GB", sign, float64(n)/GB)
	case n >= MB:
		return fmt.Sprintf("%s%.2f MB", sign, float64(n)/MB)
	case n >= KB:
		return fmt.Sprintf("%s%.2f KB", sign, float64(n)/KB)
	default:
		return fmt.Sprintf("%s%d B", sign, n)
	}
}
