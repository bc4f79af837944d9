// Package projecttest builds and inspects throwaway project trees in tests.
package projecttest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Tree is a project directory rooted in t.TempDir().
type Tree struct {
	t    *testing.T
	Root string
}

// New creates an empty tree.
func New(t *testing.T) *Tree {
	t.Helper()
	return &Tree{t: t, Root: t.TempDir()}
}

// Path returns the absolute path of a slash-separated relative path.
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.Root, filepath.FromSlash(rel))
}

// Write creates rel with content, making parent directories.
func (tr *Tree) Write(rel, content string) *Tree {
	tr.t.Helper()
	path := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tr.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tr.t.Fatalf("write %s: %v", path, err)
	}
	return tr
}

// Touch creates empty files.
func (tr *Tree) Touch(rels ...string) *Tree {
	tr.t.Helper()
	for _, rel := range rels {
		tr.Write(rel, "")
	}
	return tr
}

// Exists reports whether rel exists.
func (tr *Tree) Exists(rel string) bool {
	_, err := os.Stat(tr.Path(rel))
	return err == nil
}

// IsEmptyDir reports whether rel is an existing, empty directory.
func (tr *Tree) IsEmptyDir(rel string) bool {
	tr.t.Helper()
	entries, err := os.ReadDir(tr.Path(rel))
	if err != nil {
		return false
	}
	return len(entries) == 0
}

// Snapshot lists every path below the root, sorted, for comparing states.
func (tr *Tree) Snapshot() []string {
	tr.t.Helper()
	var paths []string
	err := filepath.WalkDir(tr.Root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(tr.Root, path)
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		tr.t.Fatalf("walk %s: %v", tr.Root, err)
	}
	sort.Strings(paths)
	return paths
}
