package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/relkit/internal/logfields"
	"git.home.luguber.info/inful/relkit/internal/metrics"
)

var echoColor = color.New(color.FgHiBlue, color.Bold)

// ShellExecutor invokes programs through os/exec, streaming their output to
// the console while also capturing it for the Result.
type ShellExecutor struct {
	stdout   io.Writer
	stderr   io.Writer
	echo     io.Writer
	env      []string
	recorder metrics.Recorder
}

// NewShellExecutor creates an executor bound to the process stdout/stderr.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		echo:     os.Stdout,
		recorder: metrics.NoopRecorder{},
	}
}

// WithOutput redirects the child's stdout/stderr and the command echo.
func (s *ShellExecutor) WithOutput(stdout, stderr io.Writer) *ShellExecutor {
	if stdout != nil {
		s.stdout = stdout
		s.echo = stdout
	}
	if stderr != nil {
		s.stderr = stderr
	}
	return s
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func (s *ShellExecutor) WithEnv(env ...string) *ShellExecutor {
	s.env = append(s.env, env...)
	return s
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (s *ShellExecutor) WithRecorder(r metrics.Recorder) *ShellExecutor {
	if r != nil {
		s.recorder = r
	}
	return s
}

func (s *ShellExecutor) Run(ctx context.Context, dir string, args []string) (Result, error) {
	res := Result{Args: args, Dir: dir}
	if len(args) == 0 || args[0] == "" {
		return res, ErrEmptyCommand
	}

	// Names with a separator are resolved against dir by the child start.
	if !strings.ContainsRune(args[0], '/') && !strings.ContainsRune(args[0], filepath.Separator) {
		if _, err := exec.LookPath(args[0]); err != nil {
			return res, fmt.Errorf("%w: %s: %w", ErrCommandNotFound, args[0], err)
		}
	}

	_, _ = echoColor.Fprintf(s.echo, "$ %s\n", Display(args))

	var captured bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdout = io.MultiWriter(s.stdout, &captured)
	cmd.Stderr = io.MultiWriter(s.stderr, &captured)
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}

	slog.Debug("Running external command", logfields.Command(args), logfields.Path(dir))
	err := cmd.Run()
	res.Output = captured.String()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("%s interrupted: %w", Display(args), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			s.recorder.IncCommandExit(filepath.Base(args[0]), res.ExitCode)
			slog.Debug("External command failed", logfields.Command(args), logfields.ExitCode(res.ExitCode))
			return res, &ExitError{Args: args, Code: res.ExitCode, Output: res.Output, Err: err}
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("%w: %s: %w", ErrCommandNotFound, args[0], err)
		}
		return res, fmt.Errorf("run %s: %w", Display(args), err)
	}

	s.recorder.IncCommandExit(filepath.Base(args[0]), 0)
	return res, nil
}
