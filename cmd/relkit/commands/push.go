package commands

import (
	"context"
	"fmt"
	"strings"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/git"
	"git.home.luguber.info/inful/relkit/internal/metrics"
)

// PushCmd implements the 'push' command.
type PushCmd struct {
	Remote string `help:"Remote to push to (overrides git.remote)"`
	DryRun bool   `name:"dry-run" help:"Print the git commands instead of running them"`
}

func (p *PushCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	remote := cfg.Git.Remote
	if p.Remote != "" {
		if strings.HasPrefix(p.Remote, "-") || strings.ContainsAny(p.Remote, " \t") {
			return rkerrors.ValidationFailed("--remote", fmt.Sprintf("invalid remote name %q", p.Remote))
		}
		remote = p.Remote
	}

	projectRoot := root.ResolveRoot(cfg)
	t := task{Name: "push", Root: projectRoot, DryRun: p.DryRun}
	return runTask(g, cfg, t, func(ctx context.Context, ex executor.Executor) (metrics.ResultLabel, error) {
		pusher := git.NewPusher(projectRoot, ex).WithOutput(g.out())
		_, err := pusher.Push(ctx, git.PushOptions{Remote: remote, DryRun: p.DryRun})
		return resultFor(p.DryRun), err
	})
}
