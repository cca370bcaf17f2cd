package git

import (
	"context"
	"errors"
	"strings"

	"github.com/raphi011/branch-cleanup/internal/cmd"
)

// gitEnv pins git's messages to English so failure output can be matched.
var gitEnv = []string{"LC_ALL=C"}

// Runner executes git with the given arguments in dir and returns its
// combined stdout and stderr. A non-zero exit must be reported as a
// *cmd.ExitError so callers can inspect the captured output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Run calls f(ctx, dir, args...).
func (f RunnerFunc) Run(ctx context.Context, dir string, args ...string) (string, error) {
	return f(ctx, dir, args...)
}

// ExecRunner runs the git binary found in PATH.
type ExecRunner struct{}

// NewRunner returns a Runner backed by the git executable.
func NewRunner() ExecRunner {
	return ExecRunner{}
}

// Run executes git in dir.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := cmd.CombinedOutputContext(ctx, dir, gitEnv, "git", args...)
	return string(out), err
}

// IsNotRepository reports whether err is git refusing to run because the
// working directory is not inside a repository.
func IsNotRepository(err error) bool {
	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return strings.Contains(strings.ToLower(exitErr.Output), "not a git repository")
}

// ErrorOutput returns the text git printed for a failed command,
// falling back to the error message when git printed nothing.
func ErrorOutput(err error) string {
	if err == nil {
		return ""
	}
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(exitErr.Output); msg != "" {
			return msg
		}
	}
	return err.Error()
}
