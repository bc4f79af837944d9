// Package dist builds a source distribution: it cleans the workspace, runs
// the configured packaging command and announces the archives it produced.
package dist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/relkit/internal/config"
	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/logfields"
	"git.home.luguber.info/inful/relkit/internal/workspace"
)

// Options controls a single Dist run.
type Options struct {
	Upload     bool // append the upload sub-step to the packaging command
	RemoveDist bool // remove the distribution directory before packaging
	DryRun     bool // print the packaging command instead of running it
}

// Result describes a finished Dist run.
type Result struct {
	Command       []string
	Clean         workspace.Report
	Distributions []string // paths directly inside the distribution directory
	DryRun        bool
}

// Distributor wires the cleaner and the packaging command together.
type Distributor struct {
	cleaner  *workspace.Cleaner
	executor executor.Executor
	cfg      config.DistConfig
	out      io.Writer
}

// NewDistributor creates a distributor operating on the cleaner's project root.
func NewDistributor(cleaner *workspace.Cleaner, ex executor.Executor, cfg config.DistConfig) *Distributor {
	return &Distributor{
		cleaner:  cleaner,
		executor: ex,
		cfg:      cfg,
		out:      os.Stdout,
	}
}

// WithOutput sets the writer the announcement goes to (fluent helper).
func (d *Distributor) WithOutput(w io.Writer) *Distributor {
	if w != nil {
		d.out = w
	}
	return d
}

// Command returns the packaging argv, with the upload sub-step when requested.
func (d *Distributor) Command(upload bool) []string {
	args := append([]string{}, d.cfg.Command...)
	if upload {
		args = append(args, d.cfg.UploadArgs...)
	}
	return args
}

// Dist cleans, packages and announces. A dry run still cleans (re-creating
// the output directories) but neither packages nor lists.
func (d *Distributor) Dist(ctx context.Context, opts Options) (Result, error) {
	res := Result{DryRun: opts.DryRun}

	report, err := d.cleaner.Clean(workspace.CleanOptions{RemoveDist: opts.RemoveDist, CreateDirs: true})
	res.Clean = report
	if err != nil {
		return res, err
	}

	res.Command = d.Command(opts.Upload)
	ex := d.executor
	if opts.DryRun {
		ex = executor.DryRun(d.executor, d.out)
	}

	slog.Info("Building source distribution", logfields.Command(res.Command), logfields.DryRun(opts.DryRun), slog.Bool("upload", opts.Upload))
	if _, err := ex.Run(ctx, d.cleaner.Root(), res.Command); err != nil {
		return res, rkerrors.CommandFailed(executor.Display(res.Command), err)
	}
	if opts.DryRun {
		return res, nil
	}

	dists, err := d.announce()
	res.Distributions = dists
	return res, err
}

// announce prints a header and one line per entry of the distribution
// directory, in the order the filesystem returns them.
func (d *Distributor) announce() ([]string, error) {
	dir := filepath.Join(d.cleaner.Root(), d.cfg.Directory)
	names, err := listDir(dir)
	if err != nil {
		return nil, rkerrors.Wrap(err, rkerrors.CategoryFileSystem, rkerrors.SeverityFatal, "list distribution directory").
			WithContext("path", dir)
	}

	paths := make([]string, 0, len(names))
	_, _ = fmt.Fprintln(d.out)
	_, _ = fmt.Fprintln(d.out, "Distributions:")
	for _, name := range names {
		p := filepath.Join(dir, name)
		paths = append(paths, p)
		_, _ = fmt.Fprintln(d.out, p)
	}
	if len(paths) == 0 {
		slog.Warn("Distribution directory is empty", logfields.Path(dir))
	}
	return paths, nil
}

// listDir returns entry names without sorting; a missing directory is empty.
func listDir(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
