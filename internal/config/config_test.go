package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, []string{"build", "dist"}, cfg.Clean.Directories)
	assert.Equal(t, []string{".pyc", "$py.class", "~"}, cfg.Clean.Suffixes)
	assert.Equal(t, []string{"__pycache__"}, cfg.Clean.CacheDirs)
	assert.Equal(t, "dist", cfg.Dist.Directory)
	assert.Equal(t, []string{"python", "setup.py", "sdist"}, cfg.Dist.Command)
	assert.Equal(t, []string{"upload"}, cfg.Dist.UploadArgs)
	assert.Equal(t, "origin", cfg.Git.Remote)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
dist:
  command: ["python3", "-m", "build", "--sdist"]
  upload_args: []
git:
  remote: upstream
history:
  enabled: true
logging:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"python3", "-m", "build", "--sdist"}, cfg.Dist.Command)
	assert.Empty(t, cfg.Dist.UploadArgs)
	assert.Equal(t, "upstream", cfg.Git.Remote)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	// untouched domains keep defaults
	assert.Equal(t, []string{"build", "dist"}, cfg.Clean.Directories)
	assert.Equal(t, "dist", cfg.Dist.Directory)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("RELKIT_TEST_REMOTE", "mirror")
	path := writeConfig(t, "git:\n  remote: ${RELKIT_TEST_REMOTE}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mirror", cfg.Git.Remote)
}

func TestLoad_KeepsLiteralDollar(t *testing.T) {
	t.Setenv("py", "oops")
	path := writeConfig(t, "clean:\n  suffixes: [\".pyc\", \"$py.class\"]\ndist:\n  command: [sh, -c, \"echo $HOME ${RELKIT_UNSET_VAR}\"]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".pyc", "$py.class"}, cfg.Clean.Suffixes)
	assert.Equal(t, []string{"sh", "-c", "echo $HOME ${RELKIT_UNSET_VAR}"}, cfg.Dist.Command)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("RELKIT_TEST_A", "alpha")
	t.Setenv("RELKIT_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"${RELKIT_TEST_A}", "alpha"},
		{"x-${RELKIT_TEST_A}-y", "x-alpha-y"},
		{"$RELKIT_TEST_A", "$RELKIT_TEST_A"},
		{"${RELKIT_TEST_EMPTY}", ""},
		{"${RELKIT_NOT_SET_ANYWHERE}", "${RELKIT_NOT_SET_ANYWHERE}"},
		{"mod$py.class", "mod$py.class"},
		{"$", "$"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnv(tt.in), tt.in)
	}
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RELKIT_TEST_DOTENV_REMOTE=dotenv\n"), 0o600))
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("git:\n  remote: ${RELKIT_TEST_DOTENV_REMOTE}\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RELKIT_TEST_DOTENV_REMOTE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.Git.Remote)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvGitRemote, "fork")
	t.Setenv(EnvLogLevel, "error")
	path := writeConfig(t, "git:\n  remote: upstream\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fork", cfg.Git.Remote)
	assert.Equal(t, LogLevelError, cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "clean: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryConfig))
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"absolute clean directory", "clean:\n  directories: [\"/tmp\"]\n"},
		{"escaping clean directory", "clean:\n  directories: [\"../x\"]\n"},
		{"empty suffix", "clean:\n  suffixes: [\"\"]\n"},
		{"nested cache dir", "clean:\n  cache_dirs: [\"a/b\"]\n"},
		{"dist root", "dist:\n  directory: \".\"\n"},
		{"blank command", "dist:\n  command: [\" \"]\n"},
		{"flag-like remote", "git:\n  remote: \"--force\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "origin", cfg.Git.Remote)

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Contains(t, cfg.Clean.Suffixes, "$py.class")

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, rkerrors.IsCategory(err, rkerrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" Debug "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
