package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/relkit/internal/config"
	"git.home.luguber.info/inful/relkit/internal/eventstore"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/logfields"
	"git.home.luguber.info/inful/relkit/internal/metrics"
	"git.home.luguber.info/inful/relkit/internal/observability"
)

// Global carries per-invocation state shared by every command.
type Global struct {
	Context  context.Context
	Logger   *slog.Logger
	RunID    string
	Recorder metrics.Recorder
	Executor executor.Executor
	Out      io.Writer // progress lines; stdout when nil
}

func (g *Global) context() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) executor() executor.Executor {
	if g.Executor == nil {
		g.Executor = executor.NewShellExecutor().WithOutput(g.out(), nil).WithRecorder(g.recorder())
	}
	return g.Executor
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (default: relkit.yaml in the project root)" type:"path"`
	Root        string           `short:"r" help:"Project root directory (overrides project.root)" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Clean   CleanCmd   `cmd:"" help:"Remove build output, temporary files and interpreter caches"`
	Dist    DistCmd    `cmd:"" help:"Clean, then build a source distribution and list the archives"`
	Push    PushCmd    `cmd:"" help:"Push the current branch, then all tags, to a remote"`
	History HistoryCmd `cmd:"" help:"Show recent task runs from the task journal"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once from flags and
// environment. The config file may refine it later in loadConfig.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose,
		config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel)),
		config.NormalizeLogFormat(os.Getenv(config.EnvLogFormat)))
	return nil
}

func setupLogging(verbose bool, level config.LogLevel, format config.LogFormat) *slog.Logger {
	lvl := level.SlogLevel()
	if verbose {
		lvl = slog.LevelDebug
	}
	logger := observability.NewLogger(os.Stderr, lvl, string(format))
	slog.SetDefault(logger)
	return logger
}

// configPath returns the file to load and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	base := c.Root
	if base == "" {
		base = "."
	}
	return filepath.Join(base, config.DefaultPath), false
}

// loadConfig loads the configuration and re-applies its logging settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	path, explicit := c.configPath()
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, err
	}
	g.Logger = setupLogging(c.Verbose, cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("Configuration loaded", logfields.Path(path), slog.Bool("explicit", explicit))
	return cfg, nil
}

// ResolveRoot determines the project root.
// Priority: --root flag > project.root (relative to the config file) > ".".
func (c *CLI) ResolveRoot(cfg *config.Config) string {
	if c.Root != "" {
		return c.Root
	}
	root := cfg.Project.Root
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) {
		return root
	}
	path, _ := c.configPath()
	return filepath.Join(filepath.Dir(path), root)
}

// task identifies one command invocation for logging, metrics and the journal.
type task struct {
	Name   string
	Root   string
	DryRun bool
}

// runTask wraps fn with run/task log context, duration and outcome metrics,
// and journals the run when history is enabled. fn receives the executor to
// use for external commands.
func runTask(g *Global, cfg *config.Config, t task, fn func(ctx context.Context, ex executor.Executor) (metrics.ResultLabel, error)) error {
	ctx := observability.WithTask(observability.WithRunID(g.context(), g.RunID), t.Name)
	rec := g.recorder()

	journal, closeJournal := openJournal(ctx, cfg.History, t.Root, g.RunID)
	defer closeJournal()
	ex := journal.WrapExecutor(g.executor())

	journal.TaskStarted(ctx, t.Name, t.Root, t.DryRun)
	start := time.Now()
	observability.DebugContext(ctx, "Task started", logfields.Root(t.Root), logfields.DryRun(t.DryRun))
	result, err := fn(ctx, ex)
	elapsed := time.Since(start)
	rec.ObserveTaskDuration(t.Name, elapsed)

	if err != nil {
		result = metrics.ResultFailed
	}
	rec.IncTaskResult(t.Name, result)
	journal.TaskFinished(ctx, t.Name, string(result), elapsed, err)

	if err != nil {
		observability.DebugContext(ctx, "Task failed", logfields.DurationMS(float64(elapsed.Milliseconds())))
		return err
	}
	observability.InfoContext(ctx, "Task finished", logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

// HistoryPath resolves the journal location against the project root.
func HistoryPath(hist config.HistoryConfig, root string) string {
	path := hist.Path
	if path == "" {
		path = config.DefaultHistoryPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// openJournal opens the task journal when enabled. A journal that cannot be
// opened is logged and skipped; the task still runs.
func openJournal(ctx context.Context, hist config.HistoryConfig, root, runID string) (*eventstore.Journal, func()) {
	if !hist.Enabled {
		return nil, func() {}
	}
	path := HistoryPath(hist, root)
	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		observability.WarnContext(ctx, "Task history unavailable", logfields.Path(path), logfields.Error(err))
		return nil, func() {}
	}
	return eventstore.NewJournal(store, runID), func() { _ = store.Close() }
}

func resultFor(dryRun bool) metrics.ResultLabel {
	if dryRun {
		return metrics.ResultDryRun
	}
	return metrics.ResultSuccess
}
