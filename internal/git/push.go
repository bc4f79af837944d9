package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/logfields"
)

// DefaultRemote is pushed to when no remote is configured.
const DefaultRemote = "origin"

// PushOptions controls a single Push run.
type PushOptions struct {
	Remote string
	DryRun bool
}

// PushResult describes a finished Push run.
type PushResult struct {
	Remote   string
	Head     Head
	Commands [][]string
	DryRun   bool
}

// Pusher pushes the current branch, then tags, of the repository at root.
type Pusher struct {
	root     string
	executor executor.Executor
	out      io.Writer
}

// NewPusher creates a pusher for the repository containing root.
func NewPusher(root string, ex executor.Executor) *Pusher {
	if root == "" {
		root = "."
	}
	return &Pusher{root: root, executor: ex, out: os.Stdout}
}

// WithOutput sets where dry-run command lines are printed (fluent helper).
func (p *Pusher) WithOutput(w io.Writer) *Pusher {
	if w != nil {
		p.out = w
	}
	return p
}

// PushCommands returns the two git invocations, branch first.
func PushCommands(remote, branch string) [][]string {
	return [][]string{
		{"git", "push", remote, branch},
		{"git", "push", "--tags", remote},
	}
}

// Push validates the repository state and runs both pushes. The first
// failing command aborts the run.
func (p *Pusher) Push(ctx context.Context, opts PushOptions) (PushResult, error) {
	remote := opts.Remote
	if remote == "" {
		remote = DefaultRemote
	}
	res := PushResult{Remote: remote, DryRun: opts.DryRun}

	repo, err := openRepository(p.root)
	if err != nil {
		return res, err
	}
	head, err := readHead(repo, p.root)
	if err != nil {
		return res, err
	}
	res.Head = head

	if _, err := repo.Remote(remote); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return res, rkerrors.GitRemoteNotFound(remote, err)
		}
		return res, rkerrors.GitRepositoryError(p.root, err)
	}

	ex := p.executor
	if opts.DryRun {
		ex = executor.DryRun(p.executor, p.out)
	}

	slog.Info("Pushing to remote",
		logfields.Remote(remote),
		logfields.Branch(head.Branch),
		slog.String("commit", ShortHash(head.Commit)),
		logfields.DryRun(opts.DryRun))

	for _, args := range PushCommands(remote, head.Branch) {
		if _, err := ex.Run(ctx, p.root, args); err != nil {
			return res, rkerrors.Wrap(err, rkerrors.CategoryGit, rkerrors.SeverityFatal, "git push failed").
				WithContext("command", executor.Display(args)).
				WithContext("remote", remote)
		}
		res.Commands = append(res.Commands, args)
	}
	return res, nil
}
