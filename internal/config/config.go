package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "relkit.yaml"

// Config represents the application configuration
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Clean   CleanConfig   `yaml:"clean"`
	Dist    DistConfig    `yaml:"dist"`
	Git     GitConfig     `yaml:"git"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ProjectConfig locates the project tree the tasks operate on.
type ProjectConfig struct {
	Root string `yaml:"root"`
}

// CleanConfig lists what the clean task removes.
type CleanConfig struct {
	Directories []string `yaml:"directories"` // output directories removed (and optionally re-created)
	Suffixes    []string `yaml:"suffixes"`    // file name suffixes removed anywhere in the tree
	CacheDirs   []string `yaml:"cache_dirs"`  // directory names removed anywhere in the tree
}

// DistConfig describes the packaging step.
type DistConfig struct {
	Directory  string   `yaml:"directory"`
	Command    []string `yaml:"command"`
	UploadArgs []string `yaml:"upload_args"`
}

// GitConfig configures the push helper.
type GitConfig struct {
	Remote string `yaml:"remote"`
}

// HistoryConfig controls the SQLite task journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // relative paths resolve against the project root
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(filepath.Dir(configPath)); err != nil {
		slog.Debug("No .env file loaded", slog.String("dir", filepath.Dir(configPath)), slog.String("reason", err.Error()))
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, rkerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, rkerrors.ConfigInvalid(configPath, err)
	}

	// Only ${VAR} references are expanded; a bare $ is literal (clean suffix "$py.class").
	expandedData := expandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, rkerrors.ConfigInvalid(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	applyEnvOverrides(&config)
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&config); err != nil {
		if te, ok := rkerrors.As(err); ok {
			return nil, te.WithContext("path", configPath)
		}
		return nil, err
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and the caller did not name it explicitly.
func LoadOrDefault(configPath string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			_ = loadEnvFile(filepath.Dir(configPath))
			cfg := Default()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}
	return Load(configPath)
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return rkerrors.ValidationFailed("config", fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	exampleConfig := Default()

	data, err := yaml.Marshal(exampleConfig)
	if err != nil {
		return rkerrors.InternalError("failed to marshal config", err)
	}

	header := "# relkit configuration. Every key is optional; values shown are the defaults.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return rkerrors.Wrap(err, rkerrors.CategoryFileSystem, rkerrors.SeverityFatal, "failed to write config file").
			WithContext("path", configPath)
	}

	return nil
}
