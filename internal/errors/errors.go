// Package errors provides a lightweight structured error type (TaskError)
// for category-based classification of task failures and CLI exit codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a task error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryGit     ErrorCategory = "git"
	CategoryCommand ErrorCategory = "command"

	// Workspace errors
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// TaskError is a structured error with category, severity and context
type TaskError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for TaskError
type ContextFields map[string]any

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *TaskError) WithContext(key string, value any) *TaskError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new TaskError
func New(category ErrorCategory, severity ErrorSeverity, message string) *TaskError {
	return &TaskError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new TaskError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *TaskError {
	return &TaskError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the outermost TaskError in err's chain.
func As(err error) (*TaskError, bool) {
	var te *TaskError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if te, ok := As(err); ok {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a TaskError
func GetCategory(err error) ErrorCategory {
	if te, ok := As(err); ok {
		return te.Category
	}
	return CategoryInternal
}
