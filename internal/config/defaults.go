package config

// DefaultHistoryPath is where the task journal lives, relative to the project root.
const DefaultHistoryPath = ".relkit/history.db"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ProjectDefaultApplier handles Project configuration defaults.
type ProjectDefaultApplier struct{}

func (p *ProjectDefaultApplier) Domain() string { return "project" }

func (p *ProjectDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}
	return nil
}

// CleanDefaultApplier handles Clean configuration defaults.
type CleanDefaultApplier struct{}

func (c *CleanDefaultApplier) Domain() string { return "clean" }

func (c *CleanDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Clean.Directories) == 0 {
		cfg.Clean.Directories = []string{"build", "dist"}
	}
	if len(cfg.Clean.Suffixes) == 0 {
		cfg.Clean.Suffixes = []string{".pyc", "$py.class", "~"}
	}
	if len(cfg.Clean.CacheDirs) == 0 {
		cfg.Clean.CacheDirs = []string{"__pycache__"}
	}
	return nil
}

// DistDefaultApplier handles Dist configuration defaults.
type DistDefaultApplier struct{}

func (d *DistDefaultApplier) Domain() string { return "dist" }

func (d *DistDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Dist.Directory == "" {
		cfg.Dist.Directory = "dist"
	}
	if len(cfg.Dist.Command) == 0 {
		cfg.Dist.Command = []string{"python", "setup.py", "sdist"}
	}
	// UploadArgs nil means "use default"; an explicit empty list is kept.
	if cfg.Dist.UploadArgs == nil {
		cfg.Dist.UploadArgs = []string{"upload"}
	}
	return nil
}

// GitDefaultApplier handles Git configuration defaults.
type GitDefaultApplier struct{}

func (g *GitDefaultApplier) Domain() string { return "git" }

func (g *GitDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Git.Remote == "" {
		cfg.Git.Remote = "origin"
	}
	return nil
}

// HistoryDefaultApplier handles History configuration defaults.
type HistoryDefaultApplier struct{}

func (h *HistoryDefaultApplier) Domain() string { return "history" }

func (h *HistoryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	return nil
}

// LoggingDefaultApplier handles Logging configuration defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var defaultAppliers = []DefaultApplier{
	&ProjectDefaultApplier{},
	&CleanDefaultApplier{},
	&DistDefaultApplier{},
	&GitDefaultApplier{},
	&HistoryDefaultApplier{},
	&LoggingDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a configuration with every domain default applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}
