// Package workspace cleans a project tree of build output and interpreter
// caches.
//
// The Cleaner removes the well-known output directories (build, dist) at the
// project root, optionally re-creating them empty, and then walks the whole
// tree deleting files by suffix (.pyc, $py.class, ~) and cache directories by
// name (__pycache__). Every step is idempotent, so a run interrupted half way
// can simply be repeated. Filesystem errors abort the run.
package workspace
