package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

// Environment variables that override configuration file values.
const (
	EnvLogLevel  = "RELKIT_LOG_LEVEL"
	EnvLogFormat = "RELKIT_LOG_FORMAT"
	EnvGitRemote = "RELKIT_GIT_REMOTE"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// loadEnvFile loads environment variables from .env/.env.local files in dir.
// It attempts each supported filename in order and stops at the first successfully parsed file.
// Existing process environment variables are not overwritten.
func loadEnvFile(dir string) error {
	envPaths := []string{".env", ".env.local"}
	for _, name := range envPaths {
		envPath := filepath.Join(dir, name)
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", slog.String("path", envPath))
			return nil
		}
	}
	return fmt.Errorf("no .env file found in %s", dir)
}

// expandEnv replaces ${VAR} references with their values. Unset variables
// and bare $NAME sequences are left as written.
func expandEnv(content string) string {
	return envRefPattern.ReplaceAllStringFunc(content, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return ref
	})
}

// applyEnvOverrides copies RELKIT_* variables over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = NormalizeLogFormat(v)
	}
	if v := os.Getenv(EnvGitRemote); v != "" {
		cfg.Git.Remote = v
	}
}
