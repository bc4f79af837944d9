// Package executor runs external programs for relkit tasks.
//
// Every task that shells out (the packaging command, git push) goes through
// the Executor interface so that callers can swap the real ShellExecutor for
// DryRunExecutor, which only prints the command line, or for a recording fake
// in tests. Failures are typed: ErrCommandNotFound when the program cannot be
// located and *ExitError (matching ErrCommandFailed) for a non-zero exit.
package executor
