package executor

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/relkit/internal/logfields"
)

// DryRunExecutor prints the command line it would run and reports success
// without spawning anything.
type DryRunExecutor struct {
	out io.Writer
}

// NewDryRunExecutor creates a dry-run executor printing to out (stdout if nil).
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunExecutor{out: out}
}

func (d *DryRunExecutor) Run(_ context.Context, dir string, args []string) (Result, error) {
	if len(args) == 0 || args[0] == "" {
		return Result{Dir: dir}, ErrEmptyCommand
	}
	slog.Debug("Dry run, not executing", logfields.Command(args), logfields.Path(dir))
	_, _ = echoColor.Fprintf(d.out, "$ %s\n", Display(args))
	return Result{Args: args, Dir: dir, DryRun: true}, nil
}

// DryRunner is implemented by executors that wrap another executor and want
// to keep wrapping it in dry-run mode.
type DryRunner interface {
	DryRun(out io.Writer) Executor
}

// DryRun returns the dry-run counterpart of ex: ex's own when it implements
// DryRunner, otherwise a plain DryRunExecutor printing to out.
func DryRun(ex Executor, out io.Writer) Executor {
	if dr, ok := ex.(DryRunner); ok {
		return dr.DryRun(out)
	}
	return NewDryRunExecutor(out)
}
