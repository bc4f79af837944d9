// Package executortest provides a recording Executor for tests.
package executortest

import (
	"context"
	"strings"
	"sync"

	"git.home.luguber.info/inful/relkit/internal/executor"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Args []string
}

// Fake records every Run call and never spawns a process. Failures are
// scripted by command line through FailWith; OnRun lets a test emulate side
// effects such as a packaging tool writing an archive.
type Fake struct {
	mu       sync.Mutex
	calls    []Call
	failures map[string]int
	OnRun    func(dir string, args []string) error
}

// New creates an empty fake.
func New() *Fake {
	return &Fake{failures: map[string]int{}}
}

// FailWith makes the command line (args joined by spaces) exit with code.
func (f *Fake) FailWith(commandLine string, code int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[commandLine] = code
	return f
}

func (f *Fake) Run(_ context.Context, dir string, args []string) (executor.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Dir: dir, Args: append([]string{}, args...)})
	code, fail := f.failures[strings.Join(args, " ")]
	hook := f.OnRun
	f.mu.Unlock()

	res := executor.Result{Args: args, Dir: dir}
	if len(args) == 0 {
		return res, executor.ErrEmptyCommand
	}
	if fail {
		res.ExitCode = code
		res.Output = "scripted failure"
		return res, &executor.ExitError{Args: args, Code: code, Output: res.Output}
	}
	if hook != nil {
		if err := hook(dir, args); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call{}, f.calls...)
}

// CommandLines returns the recorded argv joined by spaces.
func (f *Fake) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = strings.Join(c.Args, " ")
	}
	return lines
}
