package metrics

import "time"

// ResultLabel enumerates task result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultDryRun  ResultLabel = "dry_run"
)

// RemovedKind labels what the cleaner removed.
type RemovedKind string

const (
	RemovedDirectory RemovedKind = "directory"
	RemovedFile      RemovedKind = "file"
	RemovedCacheDir  RemovedKind = "cache_dir"
)

// Recorder defines observability hooks for task metrics.
type Recorder interface {
	ObserveTaskDuration(task string, d time.Duration)
	IncTaskResult(task string, result ResultLabel)
	AddRemoved(kind RemovedKind, n int)
	IncCommandExit(command string, code int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
func (NoopRecorder) IncTaskResult(string, ResultLabel)         {}
func (NoopRecorder) AddRemoved(RemovedKind, int)               {}
func (NoopRecorder) IncCommandExit(string, int)                {}
