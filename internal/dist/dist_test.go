package dist

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/relkit/internal/config"
	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor"
	"git.home.luguber.info/inful/relkit/internal/executor/executortest"
	"git.home.luguber.info/inful/relkit/internal/workspace"
)

func newDistributor(root string, fake *executortest.Fake) (*Distributor, *bytes.Buffer) {
	cfg := config.Default()
	var out bytes.Buffer
	cleaner := workspace.NewCleaner(root, workspace.TargetsFromConfig(cfg)).WithOutput(&out)
	return NewDistributor(cleaner, fake, cfg.Dist).WithOutput(&out), &out
}

// writeArchive emulates an sdist run producing one archive.
func writeArchive(name string) func(dir string, args []string) error {
	return func(dir string, _ []string) error {
		return os.WriteFile(filepath.Join(dir, "dist", name), []byte("tar"), 0o600)
	}
}

func TestCommand(t *testing.T) {
	d, _ := newDistributor(t.TempDir(), executortest.New())

	assert.Equal(t, []string{"python", "setup.py", "sdist"}, d.Command(false))
	assert.Equal(t, []string{"python", "setup.py", "sdist", "upload"}, d.Command(true))
	assert.Equal(t, []string{"python", "setup.py", "sdist"}, d.Command(false), "upload must not leak into the base command")
}

func TestDist_EmptyProject(t *testing.T) {
	root := t.TempDir()
	fake := executortest.New()
	d, out := newDistributor(root, fake)

	res, err := d.Dist(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, "python setup.py sdist", fake.CommandLines()[0])
	assert.Equal(t, root, fake.Calls()[0].Dir)
	assert.Empty(t, res.Distributions)
	assert.True(t, strings.HasSuffix(out.String(), "\nDistributions:\n"), "got %q", out.String())
}

func TestDist_ListsProducedArchives(t *testing.T) {
	root := t.TempDir()
	fake := executortest.New()
	fake.OnRun = writeArchive("pkg-1.0.tar.gz")
	d, out := newDistributor(root, fake)

	res, err := d.Dist(context.Background(), Options{})
	require.NoError(t, err)

	want := filepath.Join(root, "dist", "pkg-1.0.tar.gz")
	assert.Equal(t, []string{want}, res.Distributions)
	assert.Contains(t, out.String(), "Distributions:\n"+want+"\n")
}

func TestDist_Upload(t *testing.T) {
	fake := executortest.New()
	d, _ := newDistributor(t.TempDir(), fake)

	_, err := d.Dist(context.Background(), Options{Upload: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"python setup.py sdist upload"}, fake.CommandLines())
}

func TestDist_RemoveDistFlag(t *testing.T) {
	tests := []struct {
		name       string
		removeDist bool
		wantOld    bool
	}{
		{"keeps previous archives by default", false, true},
		{"removes previous archives", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "old.tar.gz"), nil, 0o600))

			d, _ := newDistributor(root, executortest.New())
			res, err := d.Dist(context.Background(), Options{RemoveDist: tt.removeDist})
			require.NoError(t, err)

			_, statErr := os.Stat(filepath.Join(root, "dist", "old.tar.gz"))
			assert.Equal(t, tt.wantOld, statErr == nil)
			assert.Equal(t, tt.wantOld, len(res.Distributions) == 1)
		})
	}
}

func TestDist_DryRun(t *testing.T) {
	root := t.TempDir()
	fake := executortest.New()
	d, out := newDistributor(root, fake)

	res, err := d.Dist(context.Background(), Options{DryRun: true, Upload: true})
	require.NoError(t, err)

	assert.Empty(t, fake.Calls(), "dry run must not invoke the packaging command")
	assert.True(t, res.DryRun)
	assert.Contains(t, out.String(), "$ python setup.py sdist upload")
	assert.NotContains(t, out.String(), "Distributions:")
}

func TestDist_DryRunWithAbsentDistDirectory(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	// dist is not among the managed directories, so nothing re-creates it
	cfg.Clean.Directories = []string{"build"}
	var out bytes.Buffer
	cleaner := workspace.NewCleaner(root, workspace.TargetsFromConfig(cfg)).WithOutput(&out)
	d := NewDistributor(cleaner, executortest.New(), cfg.Dist).WithOutput(&out)

	_, err := d.Dist(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	res, err := d.Dist(context.Background(), Options{})
	require.NoError(t, err, "an absent distribution directory lists as empty")
	assert.Empty(t, res.Distributions)
}

func TestDist_CommandFailure(t *testing.T) {
	fake := executortest.New().FailWith("python setup.py sdist", 2)
	d, out := newDistributor(t.TempDir(), fake)

	_, err := d.Dist(context.Background(), Options{})
	require.Error(t, err)

	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryCommand))
	assert.True(t, errors.Is(err, executor.ErrCommandFailed))
	var exitErr *executor.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitStatus())
	assert.Equal(t, 2, rkerrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.NotContains(t, out.String(), "Distributions:")
}

func TestDist_CleanFailureStopsBeforePackaging(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	fake := executortest.New()
	d, _ := newDistributor(root, fake)

	_, err := d.Dist(context.Background(), Options{})
	require.Error(t, err)
	assert.Empty(t, fake.Calls())
}
