package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/relkit/internal/config"
	rkerrors "git.home.luguber.info/inful/relkit/internal/errors"
	"git.home.luguber.info/inful/relkit/internal/logfields"
	"git.home.luguber.info/inful/relkit/internal/metrics"
)

// Targets names what the cleaner removes.
type Targets struct {
	Directories []string // output directories at the project root
	Suffixes    []string // file name suffixes, matched anywhere in the tree
	CacheDirs   []string // directory names, matched anywhere in the tree
	DistDir     string   // which of Directories is the distribution directory
}

// TargetsFromConfig derives cleaner targets from the loaded configuration.
func TargetsFromConfig(cfg *config.Config) Targets {
	return Targets{
		Directories: cfg.Clean.Directories,
		Suffixes:    cfg.Clean.Suffixes,
		CacheDirs:   cfg.Clean.CacheDirs,
		DistDir:     cfg.Dist.Directory,
	}
}

// CleanOptions controls a single Clean run.
type CleanOptions struct {
	RemoveDist bool // also remove the distribution directory
	CreateDirs bool // re-create output directories empty afterwards
	DryRun     bool // report only, leave the filesystem alone
}

// DefaultCleanOptions returns the options used by a bare `clean`.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{RemoveDist: true}
}

// Report lists what a Clean run removed or created, relative to the root.
type Report struct {
	RemovedDirs      []string
	CreatedDirs      []string
	RemovedFiles     []string
	RemovedCacheDirs []string
}

// Cleaner removes build artifacts and caches below a project root.
type Cleaner struct {
	root     string
	targets  Targets
	out      io.Writer
	recorder metrics.Recorder
}

// NewCleaner creates a cleaner for root. An empty root means the current directory.
func NewCleaner(root string, targets Targets) *Cleaner {
	if root == "" {
		root = "."
	}
	return &Cleaner{
		root:     root,
		targets:  targets,
		out:      os.Stdout,
		recorder: metrics.NoopRecorder{},
	}
}

// WithOutput sets the writer progress lines go to (fluent helper).
func (c *Cleaner) WithOutput(w io.Writer) *Cleaner {
	if w != nil {
		c.out = w
	}
	return c
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (c *Cleaner) WithRecorder(r metrics.Recorder) *Cleaner {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Root returns the project root the cleaner operates on.
func (c *Cleaner) Root() string { return c.root }

// Clean removes output directories, then temporary files and cache directories.
func (c *Cleaner) Clean(opts CleanOptions) (Report, error) {
	var report Report
	skip := make(map[string]bool)

	for _, name := range c.targets.Directories {
		path := filepath.Join(c.root, name)
		exists, err := isDir(path)
		if err != nil {
			return report, rkerrors.RemoveFailed(path, err)
		}

		if exists && (name != c.targets.DistDir || opts.RemoveDist) {
			c.printf(opts, "Removing directory %s.\n", quoteName(name))
			if opts.DryRun {
				skip[path] = true
			} else if err := os.RemoveAll(path); err != nil {
				return report, rkerrors.RemoveFailed(path, err)
			}
			exists = false
			report.RemovedDirs = append(report.RemovedDirs, name)
			slog.Debug("Removed output directory", logfields.Path(path), logfields.DryRun(opts.DryRun))
		}

		if opts.CreateDirs && !exists {
			c.printf(opts, "Creating directory %s.\n", quoteName(name))
			if !opts.DryRun {
				if err := os.Mkdir(path, 0o755); err != nil {
					return report, rkerrors.CreateFailed(path, err)
				}
			}
			report.CreatedDirs = append(report.CreatedDirs, name)
		}
	}

	c.printf(opts, "Removing temporary files.\n")
	if err := c.removeTemporary(opts, skip, &report); err != nil {
		return report, err
	}

	if !opts.DryRun {
		c.recorder.AddRemoved(metrics.RemovedDirectory, len(report.RemovedDirs))
		c.recorder.AddRemoved(metrics.RemovedFile, len(report.RemovedFiles))
		c.recorder.AddRemoved(metrics.RemovedCacheDir, len(report.RemovedCacheDirs))
	}

	slog.Info("Workspace cleaned",
		logfields.Root(c.root),
		slog.Int("directories", len(report.RemovedDirs)),
		slog.Int("files", len(report.RemovedFiles)),
		slog.Int("cache_dirs", len(report.RemovedCacheDirs)),
		logfields.DryRun(opts.DryRun))
	return report, nil
}

// removeTemporary walks the tree deleting suffix-matched files and cache directories.
// Paths in skip are directories a dry run pretends to have removed already.
func (c *Cleaner) removeTemporary(opts CleanOptions, skip map[string]bool, report *Report) error {
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == c.root {
				return nil
			}
			if skip[path] {
				return fs.SkipDir
			}
			if !c.isCacheDir(d.Name()) {
				return nil
			}
			if !opts.DryRun {
				if err := os.RemoveAll(path); err != nil {
					return rkerrors.RemoveFailed(path, err)
				}
			} else {
				c.printf(opts, "Removing %s\n", c.rel(path))
			}
			report.RemovedCacheDirs = append(report.RemovedCacheDirs, c.rel(path))
			return fs.SkipDir
		}
		if !d.Type().IsRegular() || !c.hasTempSuffix(d.Name()) {
			return nil
		}
		if !opts.DryRun {
			if err := os.Remove(path); err != nil {
				return rkerrors.RemoveFailed(path, err)
			}
		} else {
			c.printf(opts, "Removing %s\n", c.rel(path))
		}
		report.RemovedFiles = append(report.RemovedFiles, c.rel(path))
		return nil
	})
	if err != nil {
		if _, ok := rkerrors.As(err); ok {
			return err
		}
		return rkerrors.WalkFailed(c.root, err)
	}
	return nil
}

func (c *Cleaner) isCacheDir(name string) bool {
	for _, cd := range c.targets.CacheDirs {
		if name == cd {
			return true
		}
	}
	return false
}

func (c *Cleaner) hasTempSuffix(name string) bool {
	for _, s := range c.targets.Suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func (c *Cleaner) rel(path string) string {
	if r, err := filepath.Rel(c.root, path); err == nil {
		return r
	}
	return path
}

func (c *Cleaner) printf(opts CleanOptions, format string, args ...any) {
	if opts.DryRun {
		format = "[dry-run] " + format
	}
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func quoteName(name string) string {
	return "'" + name + "'"
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
