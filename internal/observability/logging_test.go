package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWithRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")

	lc := GetContext(ctx)
	if lc.RunID != "run-123" {
		t.Errorf("expected run-123, got %s", lc.RunID)
	}
}

func TestWithTask(t *testing.T) {
	ctx := WithTask(context.Background(), "dist")

	lc := GetContext(ctx)
	if lc.Task != "dist" {
		t.Errorf("expected dist, got %s", lc.Task)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithTask(ctx, "clean")

	lc := GetContext(ctx)
	if lc.RunID != "run-1" || lc.Task != "clean" {
		t.Errorf("unexpected context %+v", lc)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("run id is not a uuid: %v", err)
	}
	if id == NewRunID() {
		t.Fatal("expected distinct run ids")
	}
}

func TestInfoContextIncludesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(NewLogger(&buf, slog.LevelDebug, "text"))
	defer slog.SetDefault(prev)

	ctx := WithTask(WithRunID(context.Background(), "abc"), "push")
	InfoContext(ctx, "pushing", slog.String("remote", "origin"))

	out := buf.String()
	for _, want := range []string{"run_id=abc", "task=push", "remote=origin", "msg=pushing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "json")
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a single json record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "shown" || rec["k"] != "v" {
		t.Errorf("unexpected record %v", rec)
	}
}
