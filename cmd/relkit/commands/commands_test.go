package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	gogit "github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/executor/executortest"
	"git.home.luguber.info/inful/relkit/internal/metrics"
	"git.home.luguber.info/inful/relkit/internal/projecttest"
)

type harness struct {
	global *Global
	fake   *executortest.Fake
	out    *bytes.Buffer
	prom   *metrics.PrometheusRecorder
}

func newHarness() *harness {
	fake := executortest.New()
	out := &bytes.Buffer{}
	prom := metrics.NewPrometheusRecorder(nil)
	return &harness{
		global: &Global{RunID: "test-run", Recorder: prom, Executor: fake, Out: out},
		fake:   fake,
		out:    out,
		prom:   prom,
	}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("relkit"),
		kong.Exit(func(int) {}),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(h.global, &cli)
}

func TestCleanCommand_Defaults(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	tree.Write("build/x.pyc", "")
	tree.Write("dist/old.tar.gz", "")
	tree.Write("pkg/__pycache__/m.pyc", "")
	tree.Write("pkg/m.py", "")

	h := newHarness()
	require.NoError(t, h.run(t, "--root", root, "clean"))

	assert.False(t, tree.Exists("build"))
	assert.False(t, tree.Exists("dist"))
	assert.False(t, tree.Exists("pkg/__pycache__"))
	assert.True(t, tree.Exists("pkg/m.py"))
	assert.Contains(t, h.out.String(), "Removing temporary files.")

	n, err := testutil.GatherAndCount(h.prom.Registry(), "relkit_task_results_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCleanCommand_KeepDistCreateDirs(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	tree.Write("dist/old.tar.gz", "")

	h := newHarness()
	require.NoError(t, h.run(t, "--root", root, "clean", "--keep-dist", "--create-dirs"))

	assert.True(t, tree.Exists("build"))
	assert.True(t, tree.Exists("dist/old.tar.gz"))
}

func TestCleanCommand_DryRun(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	tree.Write("build/x.pyc", "")

	h := newHarness()
	require.NoError(t, h.run(t, "--root", root, "clean", "--dry-run"))

	assert.True(t, tree.Exists("build/x.pyc"))
	assert.Contains(t, h.out.String(), "[dry-run] Removing directory 'build'.")
}

func TestDistCommand_RunsPackagingCommand(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	h := newHarness()

	require.NoError(t, h.run(t, "--root", root, "dist", "--upload"))

	assert.Equal(t, []string{"python setup.py sdist upload"}, h.fake.CommandLines())
	assert.Equal(t, root, h.fake.Calls()[0].Dir)
	assert.Contains(t, h.out.String(), "Distributions:")
	assert.True(t, tree.Exists("build"))
	assert.True(t, tree.Exists("dist"))
}

func TestDistCommand_DryRun(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "--root", t.TempDir(), "dist", "--dry-run"))

	assert.Empty(t, h.fake.Calls())
	assert.Contains(t, h.out.String(), "$ python setup.py sdist")
}

func TestDistCommand_ConfigFileInRoot(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	tree.Write("relkit.yaml", "dist:\n  command: [make, sdist]\n  upload_args: [publish]\n")

	h := newHarness()
	require.NoError(t, h.run(t, "--root", root, "dist", "--upload"))
	assert.Equal(t, []string{"make sdist publish"}, h.fake.CommandLines())
}

func TestDistCommand_ProjectRootFromExplicitConfig(t *testing.T) {
	tree := projecttest.New(t).
		Write("conf/relkit.yaml", "project:\n  root: ../project\n").
		Touch("project/setup.py")
	base := tree.Root

	h := newHarness()
	require.NoError(t, h.run(t, "--config", filepath.Join(base, "conf", "relkit.yaml"), "dist"))
	require.Len(t, h.fake.Calls(), 1)
	assert.Equal(t, filepath.Join(base, "project"), h.fake.Calls()[0].Dir)
}

func TestDistCommand_FailureCarriesChildExitStatus(t *testing.T) {
	h := newHarness()
	h.fake.FailWith("python setup.py sdist", 3)

	err := h.run(t, "--root", t.TempDir(), "dist")
	require.Error(t, err)
	assert.Equal(t, 3, rkerrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestExplicitMissingConfigFails(t *testing.T) {
	h := newHarness()
	err := h.run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "clean")
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryConfig))
	assert.Equal(t, 7, rkerrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestPushCommand_NotARepository(t *testing.T) {
	h := newHarness()
	err := h.run(t, "--root", t.TempDir(), "push")
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryGit))
	assert.Empty(t, h.fake.Calls())
}

func TestPushCommand_RejectsOptionLikeRemote(t *testing.T) {
	h := newHarness()
	err := h.run(t, "--root", t.TempDir(), "push", "--remote=--force")
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryValidation))
	assert.Equal(t, `validation failed: --remote: invalid remote name "--force"`,
		rkerrors.NewCLIErrorAdapter(false, nil).FormatError(err))
}

func TestInvalidConfigNamesFileAndField(t *testing.T) {
	tree := projecttest.New(t).Write("relkit.yaml", "clean:\n  directories: [\"../outside\"]\n")
	h := newHarness()

	err := h.run(t, "--root", tree.Root, "clean")
	require.Error(t, err)
	msg := rkerrors.NewCLIErrorAdapter(false, nil).FormatError(err)
	assert.Contains(t, msg, "clean.directories[0]")
	assert.Contains(t, msg, "../outside")
	assert.Contains(t, msg, tree.Path("relkit.yaml"))
}

func TestPushCommand_UnbornBranchDryRun(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{"https://example.invalid/p.git"}})
	require.NoError(t, err)

	h := newHarness()
	require.NoError(t, h.run(t, "--root", root, "push", "--dry-run"))
	assert.Empty(t, h.fake.Calls())
	assert.Contains(t, h.out.String(), "$ git push --tags origin")
}

func TestInitCommand(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	h := newHarness()

	require.NoError(t, h.run(t, "--root", root, "init"))
	assert.True(t, tree.Exists("relkit.yaml"))
	assert.Contains(t, h.out.String(), "initialized successfully")

	err := h.run(t, "--root", root, "init")
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryValidation))

	require.NoError(t, h.run(t, "--root", root, "init", "--force"))
}

func TestInitThenClean_KeepsForeignClassFiles(t *testing.T) {
	tree := projecttest.New(t).
		Touch("src/Main.class", "src/mod$py.class", "src/keep.txt")
	root := tree.Root
	h := newHarness()

	require.NoError(t, h.run(t, "--root", root, "init"))
	require.NoError(t, h.run(t, "--root", root, "clean"))

	assert.True(t, tree.Exists("src/Main.class"))
	assert.False(t, tree.Exists("src/mod$py.class"))
	assert.True(t, tree.Exists("src/keep.txt"))
}

func TestResolveRoot(t *testing.T) {
	cli := &CLI{Root: "/srv/project"}
	assert.Equal(t, "/srv/project", cli.ResolveRoot(nil))
}

func TestHistoryCommand_RecordsRuns(t *testing.T) {
	tree := projecttest.New(t)
	root := tree.Root
	tree.Write("relkit.yaml", "history:\n  enabled: true\n")
	tree.Write("build/x.pyc", "")

	h := newHarness()
	h.global.RunID = "11111111-aaaa"
	require.NoError(t, h.run(t, "--root", root, "clean"))
	h.global.RunID = "22222222-bbbb"
	require.NoError(t, h.run(t, "--root", root, "dist", "--upload"))
	assert.True(t, tree.Exists(".relkit/history.db"))

	h.out.Reset()
	require.NoError(t, h.run(t, "--root", root, "history"))
	listing := h.out.String()
	assert.Contains(t, listing, "RUN")
	assert.Contains(t, listing, "11111111")
	assert.Contains(t, listing, "22222222")
	assert.Contains(t, listing, "completed")

	h.out.Reset()
	require.NoError(t, h.run(t, "--root", root, "history", "2222"))
	assert.Contains(t, h.out.String(), "Task:     dist")
	assert.Contains(t, h.out.String(), "$ python setup.py sdist upload")
}

func TestHistoryCommand_JournalsDryRunCommands(t *testing.T) {
	tree := projecttest.New(t).Write("relkit.yaml", "history:\n  enabled: true\n")
	h := newHarness()
	h.global.RunID = "33333333-cccc"

	require.NoError(t, h.run(t, "--root", tree.Root, "dist", "--dry-run"))
	assert.Empty(t, h.fake.Calls())

	h.out.Reset()
	require.NoError(t, h.run(t, "--root", tree.Root, "history", "33333333-cccc"))
	assert.Contains(t, h.out.String(), "completed (dry run)")
	assert.Contains(t, h.out.String(), "$ python setup.py sdist (not run)")

	err := h.run(t, "--root", tree.Root, "history", "ffff")
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryValidation))
}

func TestHistoryCommand_NoJournal(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "--root", t.TempDir(), "history"))
	assert.Contains(t, h.out.String(), "No task history")
}
