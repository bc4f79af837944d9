package git

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
)

// Head describes what HEAD points at.
type Head struct {
	Branch string // short branch name, e.g. "main"
	Commit string // full hash; empty on an unborn branch
}

// openRepository opens the repository containing path, searching parents.
func openRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, rkerrors.GitRepositoryError(path, err)
	}
	return repo, nil
}

// ReadHead resolves the current branch of the repository containing path.
// A detached HEAD is an error because there is no branch to push.
func ReadHead(path string) (Head, error) {
	repo, err := openRepository(path)
	if err != nil {
		return Head{}, err
	}
	return readHead(repo, path)
}

func readHead(repo *git.Repository, path string) (Head, error) {
	// Unresolved lookup so that an unborn branch still reports its name.
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return Head{}, rkerrors.GitRepositoryError(path, err)
	}
	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return Head{}, rkerrors.GitDetachedHead(path)
	}

	head := Head{Branch: ref.Target().Short()}
	resolved, err := repo.Head()
	switch {
	case err == nil:
		head.Commit = resolved.Hash().String()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch: nothing committed yet
	default:
		return Head{}, rkerrors.GitRepositoryError(path, err)
	}
	return head, nil
}

// ShortHash abbreviates a commit hash for log output.
func ShortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
