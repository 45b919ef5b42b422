package metrics

import "sync/atomic"

// MergeRunMetrics accumulates per-run counters while a batch of confirmed
// matches is being executed.
type MergeRunMetrics struct {
	ProcessedCount atomic.Int32
	MergedCount    atomic.Int32
	SkippedCount   atomic.Int32
	ConflictCount  atomic.Int32
	ErroredCount   atomic.Int32
}
