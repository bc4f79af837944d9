package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// exitStatuser is implemented by errors that carry a child process exit status.
type exitStatuser interface {
	ExitStatus() int
}

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
// Errors from external commands exit with the command's own status.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var es exitStatuser
	if stderrors.As(err, &es) {
		if code := es.ExitStatus(); code > 0 {
			return code
		}
	}

	if te, ok := As(err); ok {
		return a.exitCodeFromTask(te)
	}

	return 1
}

// exitCodeFromTask maps TaskError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromTask(err *TaskError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryGit, CategoryCommand:
		return 8 // External system error
	case CategoryFileSystem:
		return 11 // Workspace error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if te, ok := As(err); ok {
		return a.formatTask(te)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatTask formats a TaskError for display.
func (a *CLIErrorAdapter) formatTask(err *TaskError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return userMessage(err)
	default:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, err.Cause)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// userMessage renders a config or validation error with the file, field and
// reason the user has to fix, e.g.
// "validation failed: clean.directories[0]: directory must stay inside the project root: ../x (relkit.yaml)".
func userMessage(err *TaskError) string {
	msg := err.Message
	if field, ok := err.Context["field"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, field)
	}
	if reason, ok := err.Context["reason"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, reason)
	}
	if err.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, err.Cause)
	}
	if path, ok := err.Context["path"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, path)
	}
	return msg
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.stderr, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if te, ok := As(err); ok {
		return te.Category == CategoryInternal ||
			te.Category == CategoryRuntime ||
			te.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if te, ok := As(err); ok {
		level := a.slogLevelFromSeverity(te.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(te.Category)),
		}
		for k, v := range te.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if te.Cause != nil {
			attrs = append(attrs, slog.String("cause", te.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), level, te.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts TaskError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
