package executor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrCommandNotFound indicates the program was not found on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandFailed indicates the program returned a non-zero exit status.
	ErrCommandFailed = errors.New("command failed")
	// ErrEmptyCommand indicates an empty argument list.
	ErrEmptyCommand = errors.New("empty command")
)

// Executor runs one external command to completion.
type Executor interface {
	Run(ctx context.Context, dir string, args []string) (Result, error)
}

// Result describes a finished command.
type Result struct {
	Args     []string
	Dir      string
	ExitCode int
	Output   string // combined stdout and stderr
	DryRun   bool
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", Display(e.Args), e.Code)
}

// Unwrap exposes both the sentinel and the underlying process error.
func (e *ExitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Err}
}

// ExitStatus returns the child's exit code; the CLI exits with it.
func (e *ExitError) ExitStatus() int { return e.Code }

// Display renders args as a shell-style command line for echoing.
func Display(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = quoteArg(a)
	}
	return strings.Join(parts, " ")
}

func quoteArg(a string) string {
	if a == "" {
		return "''"
	}
	if !strings.ContainsAny(a, " \t\n'\"\\$`|&;<>()*?[]#~!{}") {
		return a
	}
	if !strings.Contains(a, "'") {
		return "'" + a + "'"
	}
	return strconv.Quote(a)
}
