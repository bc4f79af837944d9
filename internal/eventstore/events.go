package eventstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type names as stored in the journal.
const (
	TypeTaskStarted     = "TaskStarted"
	TypeCommandExecuted = "CommandExecuted"
	TypeTaskCompleted   = "TaskCompleted"
	TypeTaskFailed      = "TaskFailed"
)

func newBase(runID, eventType string, payload any) (BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return BaseEvent{}, fmt.Errorf("%w: %s: %w", ErrMarshalPayloadFailed, eventType, err)
	}
	return BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// TaskStarted is emitted when a task begins.
type TaskStarted struct {
	BaseEvent
	Task   string
	Root   string
	DryRun bool
}

// NewTaskStarted creates a TaskStarted event.
func NewTaskStarted(runID, task, root string, dryRun bool) (*TaskStarted, error) {
	base, err := newBase(runID, TypeTaskStarted, map[string]any{
		"task":    task,
		"root":    root,
		"dry_run": dryRun,
	})
	if err != nil {
		return nil, err
	}
	return &TaskStarted{BaseEvent: base, Task: task, Root: root, DryRun: dryRun}, nil
}

// CommandExecuted is emitted after an external command returns.
type CommandExecuted struct {
	BaseEvent
	Command  string
	ExitCode int
	DryRun   bool
}

// NewCommandExecuted creates a CommandExecuted event.
func NewCommandExecuted(runID, command string, exitCode int, dryRun bool) (*CommandExecuted, error) {
	base, err := newBase(runID, TypeCommandExecuted, map[string]any{
		"command":   command,
		"exit_code": exitCode,
		"dry_run":   dryRun,
	})
	if err != nil {
		return nil, err
	}
	return &CommandExecuted{BaseEvent: base, Command: command, ExitCode: exitCode, DryRun: dryRun}, nil
}

// TaskCompleted is emitted when a task finishes without error.
type TaskCompleted struct {
	BaseEvent
	Task     string
	Result   string
	Duration time.Duration
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(runID, task, result string, duration time.Duration) (*TaskCompleted, error) {
	base, err := newBase(runID, TypeTaskCompleted, map[string]any{
		"task":        task,
		"result":      result,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return &TaskCompleted{BaseEvent: base, Task: task, Result: result, Duration: duration}, nil
}

// TaskFailed is emitted when a task aborts with an error.
type TaskFailed struct {
	BaseEvent
	Task     string
	Category string
	Error    string
	Duration time.Duration
}

// NewTaskFailed creates a TaskFailed event.
func NewTaskFailed(runID, task, category, message string, duration time.Duration) (*TaskFailed, error) {
	base, err := newBase(runID, TypeTaskFailed, map[string]any{
		"task":        task,
		"category":    category,
		"error":       message,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return &TaskFailed{BaseEvent: base, Task: task, Category: category, Error: message, Duration: duration}, nil
}
