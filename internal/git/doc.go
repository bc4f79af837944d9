// Package git pushes a project's current branch and tags to a remote.
//
// Repository inspection (current branch, HEAD commit, remote lookup) uses
// go-git. The pushes themselves run the git CLI through an executor.Executor,
// so a dry run prints the two commands instead of running them.
package git
