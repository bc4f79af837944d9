// Package metrics provides optional task metrics for relkit.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil. The CLI swaps in a
// PrometheusRecorder when --metrics-file is given and writes the registry in
// text exposition format once the task finishes.
package metrics
