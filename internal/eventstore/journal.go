package eventstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/logfields"
)

// Journal appends the events of a single run. A nil *Journal records nothing,
// so callers need not check whether history is enabled.
type Journal struct {
	store Store
	runID string
}

// NewJournal binds a store to one run ID.
func NewJournal(store Store, runID string) *Journal {
	return &Journal{store: store, runID: runID}
}

// RunID returns the run the journal records.
func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.runID
}

// record appends ev. Journal failures never fail a task; they are logged.
func (j *Journal) record(ctx context.Context, ev Event, err error) {
	if err == nil {
		err = j.store.Append(ctx, ev)
	}
	if err != nil {
		slog.Warn("Failed to journal event", logfields.RunID(j.runID), logfields.Error(err))
	}
}

// TaskStarted journals the start of task.
func (j *Journal) TaskStarted(ctx context.Context, task, root string, dryRun bool) {
	if j == nil {
		return
	}
	ev, err := NewTaskStarted(j.runID, task, root, dryRun)
	j.record(ctx, ev, err)
}

// TaskFinished journals a completion, or a failure when taskErr is non-nil.
func (j *Journal) TaskFinished(ctx context.Context, task, result string, duration time.Duration, taskErr error) {
	if j == nil {
		return
	}
	if taskErr == nil {
		ev, err := NewTaskCompleted(j.runID, task, result, duration)
		j.record(ctx, ev, err)
		return
	}
	category := string(rkerrors.GetCategory(taskErr))
	ev, err := NewTaskFailed(j.runID, task, category, taskErr.Error(), duration)
	j.record(ctx, ev, err)
}

// WrapExecutor returns an executor that journals every command it runs.
func (j *Journal) WrapExecutor(ex executor.Executor) executor.Executor {
	if j == nil {
		return ex
	}
	return &journalingExecutor{next: ex, journal: j}
}

type journalingExecutor struct {
	next    executor.Executor
	journal *Journal
}

func (e *journalingExecutor) Run(ctx context.Context, dir string, args []string) (executor.Result, error) {
	res, err := e.next.Run(ctx, dir, args)
	code := res.ExitCode
	var exitErr *executor.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		code = -1
	}
	ev, evErr := NewCommandExecuted(e.journal.runID, executor.Display(args), code, res.DryRun)
	e.journal.record(ctx, ev, evErr)
	return res, err
}

// DryRun keeps journaling when a task swaps in a dry-run executor.
func (e *journalingExecutor) DryRun(out io.Writer) executor.Executor {
	return &journalingExecutor{next: executor.DryRun(e.next, out), journal: e.journal}
}
