package config

import (
	"fmt"
	"path/filepath"
	"strings"

	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateClean(); err != nil {
		return err
	}
	if err := cv.validateDist(); err != nil {
		return err
	}
	if err := cv.validateGit(); err != nil {
		return err
	}
	return nil
}

// validateClean rejects entries that would escape the project root.
func (cv *configurationValidator) validateClean() error {
	for i, dir := range cv.config.Clean.Directories {
		if err := validateRelativeName(dir); err != nil {
			return rkerrors.ValidationFailed(fmt.Sprintf("clean.directories[%d]", i), err.Error())
		}
	}
	for i, s := range cv.config.Clean.Suffixes {
		if s == "" {
			return rkerrors.ValidationFailed(fmt.Sprintf("clean.suffixes[%d]", i), "suffix cannot be empty")
		}
	}
	for i, name := range cv.config.Clean.CacheDirs {
		if name == "" || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
			return rkerrors.ValidationFailed(fmt.Sprintf("clean.cache_dirs[%d]", i), "must be a plain directory name")
		}
	}
	return nil
}

func (cv *configurationValidator) validateDist() error {
	if err := validateRelativeName(cv.config.Dist.Directory); err != nil {
		return rkerrors.ValidationFailed("dist.directory", err.Error())
	}
	if len(cv.config.Dist.Command) == 0 || strings.TrimSpace(cv.config.Dist.Command[0]) == "" {
		return rkerrors.ValidationFailed("dist.command", "command cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateGit() error {
	remote := cv.config.Git.Remote
	if remote == "" || strings.HasPrefix(remote, "-") || strings.ContainsAny(remote, " \t") {
		return rkerrors.ValidationFailed("git.remote", fmt.Sprintf("invalid remote name %q", remote))
	}
	return nil
}

func validateRelativeName(name string) error {
	if name == "" {
		return fmt.Errorf("directory cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("directory must be relative to the project root: %s", name)
	}
	clean := filepath.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("directory must stay inside the project root: %s", name)
	}
	return nil
}
