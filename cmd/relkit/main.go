package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/relkit/cmd/relkit/commands"
	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/logfields"
	"git.home.luguber.info/inful/relkit/internal/metrics"
	"git.home.luguber.info/inful/relkit/internal/observability"
	"git.home.luguber.info/inful/relkit/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("relkit"),
		kong.Description("Project housekeeping: clean build output, build source distributions, push releases."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cli.MetricsFile != "" {
		promRecorder = metrics.NewPrometheusRecorder(nil)
		recorder = promRecorder
	}

	global := &commands.Global{
		Context:  ctx,
		Logger:   slog.Default(),
		RunID:    observability.NewRunID(),
		Recorder: recorder,
		Executor: executor.NewShellExecutor().WithRecorder(recorder),
		Out:      os.Stdout,
	}

	err := parser.Run(global, &cli)
	stop()

	if promRecorder != nil {
		if werr := promRecorder.WriteTextfile(cli.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(cli.MetricsFile), logfields.Error(werr))
		}
	}

	rkerrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
