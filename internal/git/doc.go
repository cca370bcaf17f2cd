// Package git provides the git operations branch-cleanup needs, via the git CLI.
//
// Every call goes through a [Runner], which executes git with combined
// stdout/stderr and LC_ALL=C. [NewRunner] returns the real implementation;
// tests substitute a [RunnerFunc].
//
// # Operations
//
//   - [TopLevel]: git rev-parse --show-toplevel (repository boundary test)
//   - [ListBranches]: git branch, parsed by [ParseBranchList]
//   - [DeleteBranch]: git branch -D
//
// # Errors
//
// A non-zero exit is a *cmd.ExitError. [IsNotRepository] recognises the
// "not a git repository" failure that drives directory recursion, and
// [ErrorOutput] extracts the text to show the user.
package git
