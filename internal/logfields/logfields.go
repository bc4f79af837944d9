package logfields

import (
	"log/slog"
	"strings"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyTask       = "task"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyRemote     = "remote"
	KeyBranch     = "branch"
	KeyDryRun     = "dry_run"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Task(name string) slog.Attr      { return slog.String(KeyTask, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Root(p string) slog.Attr         { return slog.String(KeyRoot, p) }
func Command(args []string) slog.Attr { return slog.String(KeyCommand, strings.Join(args, " ")) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Remote(name string) slog.Attr    { return slog.String(KeyRemote, name) }
func Branch(name string) slog.Attr    { return slog.String(KeyBranch, name) }
func DryRun(v bool) slog.Attr         { return slog.Bool(KeyDryRun, v) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
