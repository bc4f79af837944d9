package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to show" default:"20"`
	RunID string `arg:"" name:"run" optional:"" help:"Show the commands of one run (full or leading part of its ID)"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	path := HistoryPath(cfg.History, root.ResolveRoot(cfg))
	out := g.out()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintf(out, "No task history at %s (enable history.enabled in the configuration)\n", path)
		return nil
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return rkerrors.Wrap(err, rkerrors.CategoryFileSystem, rkerrors.SeverityFatal, "open task history").
			WithContext("path", path)
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewRunHistoryProjection(store, h.Limit)
	if err := projection.Rebuild(g.context()); err != nil {
		return rkerrors.Wrap(err, rkerrors.CategoryRuntime, rkerrors.SeverityFatal, "read task history").
			WithContext("path", path)
	}

	if h.RunID != "" {
		run, ok := projection.FindRun(h.RunID)
		if !ok {
			return rkerrors.ValidationFailed("run", fmt.Sprintf("no run matching %q", h.RunID)).
				WithContext("path", path)
		}
		printRun(out, *run)
		return nil
	}

	runs := projection.GetHistory()

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No task runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tTASK\tSTATUS\tSTARTED\tDURATION")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(r.RunID), r.Task, status(r), r.StartedAt.Format(time.DateTime), r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func status(r eventstore.RunSummary) string {
	if r.DryRun && r.Status == eventstore.RunStatusCompleted {
		return r.Status + " (dry run)"
	}
	return r.Status
}

func printRun(out io.Writer, r eventstore.RunSummary) {
	_, _ = fmt.Fprintf(out, "Run:      %s\n", r.RunID)
	_, _ = fmt.Fprintf(out, "Task:     %s\n", r.Task)
	_, _ = fmt.Fprintf(out, "Status:   %s\n", status(r))
	_, _ = fmt.Fprintf(out, "Started:  %s\n", r.StartedAt.Format(time.DateTime))
	_, _ = fmt.Fprintf(out, "Duration: %s\n", r.Duration.Round(time.Millisecond))
	if r.ErrorMessage != "" {
		_, _ = fmt.Fprintf(out, "Error:    %s\n", r.ErrorMessage)
	}
	for _, c := range r.Commands {
		switch {
		case c.DryRun:
			_, _ = fmt.Fprintf(out, "$ %s (not run)\n", c.Line)
		case c.ExitCode != 0:
			_, _ = fmt.Fprintf(out, "$ %s (exit %d)\n", c.Line, c.ExitCode)
		default:
			_, _ = fmt.Fprintf(out, "$ %s\n", c.Line)
		}
	}
}
