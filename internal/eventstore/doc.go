// Package eventstore journals task runs in a local SQLite database.
//
// Every relkit invocation appends TaskStarted, CommandExecuted and
// TaskCompleted/TaskFailed events keyed by its run ID. The RunHistoryProjection
// folds those events back into per-run summaries for the history command.
package eventstore
