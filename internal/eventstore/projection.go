package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CommandRecord is one external command journaled during a run.
type CommandRecord struct {
	Line     string `json:"line"`
	ExitCode int    `json:"exit_code"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// RunSummary is a read model summarizing one invocation.
type RunSummary struct {
	RunID        string          `json:"run_id"`
	Task         string          `json:"task"`
	Status       string          `json:"status"`
	Result       string          `json:"result,omitempty"`
	DryRun       bool            `json:"dry_run"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Duration     time.Duration   `json:"duration,omitempty"`
	Commands     []CommandRecord `json:"commands,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// RunHistoryProjection maintains an in-memory view of task runs,
// reconstructed from events stored in the event store.
type RunHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	runs    map[string]*RunSummary
	maxSize int
}

// NewRunHistoryProjection creates a new projection backed by the given store.
func NewRunHistoryProjection(store Store, maxHistorySize int) *RunHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 20
	}
	return &RunHistoryProjection{
		store:   store,
		runs:    make(map[string]*RunSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from all events in the store.
func (p *RunHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.runs = make(map[string]*RunSummary)
	for _, event := range events {
		p.applyEventLocked(event)
	}
	return nil
}

func (p *RunHistoryProjection) applyEventLocked(event Event) {
	runID := event.RunID()
	if runID == "" {
		return
	}

	summary, exists := p.runs[runID]
	if !exists {
		summary = &RunSummary{
			RunID:     runID,
			Status:    RunStatusRunning,
			StartedAt: event.Timestamp(),
		}
		p.runs[runID] = summary
	}

	switch event.Type() {
	case TypeTaskStarted:
		var payload struct {
			Task   string `json:"task"`
			DryRun bool   `json:"dry_run"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Task = payload.Task
			summary.DryRun = payload.DryRun
		}
		summary.StartedAt = event.Timestamp()

	case TypeCommandExecuted:
		var payload struct {
			Command  string `json:"command"`
			ExitCode int    `json:"exit_code"`
			DryRun   bool   `json:"dry_run"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Commands = append(summary.Commands, CommandRecord{
				Line:     payload.Command,
				ExitCode: payload.ExitCode,
				DryRun:   payload.DryRun,
			})
		}

	case TypeTaskCompleted:
		p.finishLocked(summary, event, RunStatusCompleted)
		var payload struct {
			Result string `json:"result"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Result = payload.Result
		}

	case TypeTaskFailed:
		p.finishLocked(summary, event, RunStatusFailed)
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorMessage = payload.Error
		}
	}
}

func (p *RunHistoryProjection) finishLocked(summary *RunSummary, event Event, status string) {
	done := event.Timestamp()
	summary.CompletedAt = &done
	summary.Status = status

	var payload struct {
		DurationMS int64 `json:"duration_ms"`
	}
	if err := json.Unmarshal(event.Payload(), &payload); err == nil && payload.DurationMS > 0 {
		summary.Duration = time.Duration(payload.DurationMS) * time.Millisecond
	} else {
		summary.Duration = done.Sub(summary.StartedAt)
	}
}

// GetHistory returns at most maxSize runs, newest first.
func (p *RunHistoryProjection) GetHistory() []RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]RunSummary, 0, len(p.runs))
	for _, s := range p.runs {
		cp := *s
		cp.Commands = append([]CommandRecord(nil), s.Commands...)
		result = append(result, cp)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].RunID > result[j].RunID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if len(result) > p.maxSize {
		result = result[:p.maxSize]
	}
	return result
}

// FindRun returns the run whose ID equals id, or else the newest run whose ID
// starts with id. Unlike GetHistory it searches every journaled run.
func (p *RunHistoryProjection) FindRun(id string) (*RunSummary, bool) {
	if id == "" {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	match, exact := p.runs[id]
	if !exact {
		for runID, s := range p.runs {
			if !strings.HasPrefix(runID, id) {
				continue
			}
			if match == nil || s.StartedAt.After(match.StartedAt) {
				match = s
			}
		}
	}
	if match == nil {
		return nil, false
	}
	cp := *match
	cp.Commands = append([]CommandRecord(nil), match.Commands...)
	return &cp, true
}
