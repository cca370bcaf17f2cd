// Package cmd provides helpers for executing external commands with proper error handling.
//
// # Usage
//
//	// Interleaved stdout+stderr, exit status kept:
//	out, err := cmd.CombinedOutputContext(ctx, repo, nil, "git", "branch", "-D", name)
//	var exitErr *cmd.ExitError
//	if errors.As(err, &exitErr) {
//	    // exitErr.Code, exitErr.Output
//	}
//
// Every call is logged through the context logger when verbose mode is on.
//
// # Design Notes
//
// branch-cleanup shells out to the git CLI rather than using a Go git library,
// so repositories behave exactly as they do for the user (hooks, config,
// worktrees, credential helpers).
package cmd
