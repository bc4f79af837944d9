package commands

import (
	"context"

	"git.home.luguber.info/inful/relkit/internal/dist"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/metrics"
	"git.home.luguber.info/inful/relkit/internal/workspace"
)

// DistCmd implements the 'dist' command.
type DistCmd struct {
	Upload     bool `help:"Upload the distribution after building it"`
	RemoveDist bool `name:"remove-dist" help:"Remove previous archives before building"`
	DryRun     bool `name:"dry-run" help:"Print the packaging command instead of running it"`
}

func (d *DistCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	projectRoot := root.ResolveRoot(cfg)
	cleaner := workspace.NewCleaner(projectRoot, workspace.TargetsFromConfig(cfg)).
		WithOutput(g.out()).
		WithRecorder(g.recorder())

	opts := dist.Options{Upload: d.Upload, RemoveDist: d.RemoveDist, DryRun: d.DryRun}
	t := task{Name: "dist", Root: projectRoot, DryRun: d.DryRun}
	return runTask(g, cfg, t, func(ctx context.Context, ex executor.Executor) (metrics.ResultLabel, error) {
		_, err := dist.NewDistributor(cleaner, ex, cfg.Dist).WithOutput(g.out()).Dist(ctx, opts)
		return resultFor(d.DryRun), err
	})
}
