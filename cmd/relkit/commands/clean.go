package commands

import (
	"context"

	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/metrics"
	"git.home.luguber.info/inful/relkit/internal/workspace"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	KeepDist   bool `name:"keep-dist" help:"Leave the distribution directory in place"`
	CreateDirs bool `name:"create-dirs" help:"Re-create the output directories empty afterwards"`
	DryRun     bool `name:"dry-run" help:"Print what would be removed without touching the filesystem"`
}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	projectRoot := root.ResolveRoot(cfg)
	cleaner := workspace.NewCleaner(projectRoot, workspace.TargetsFromConfig(cfg)).
		WithOutput(g.out()).
		WithRecorder(g.recorder())

	opts := workspace.CleanOptions{
		RemoveDist: !c.KeepDist,
		CreateDirs: c.CreateDirs,
		DryRun:     c.DryRun,
	}
	t := task{Name: "clean", Root: projectRoot, DryRun: c.DryRun}
	return runTask(g, cfg, t, func(context.Context, executor.Executor) (metrics.ResultLabel, error) {
		_, err := cleaner.Clean(opts)
		return resultFor(c.DryRun), err
	})
}
