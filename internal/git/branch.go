package git

import (
	"context"
	"strings"
)

// Branch is one local branch as listed by git branch.
type Branch struct {
	Name     string
	Current  bool // checked out in this working tree ("* ")
	Worktree bool // checked out in another worktree ("+ ")
}

// ListBranches returns the local branches of the repository at repoPath
// in the order git lists them.
func ListBranches(ctx context.Context, r Runner, repoPath string) ([]Branch, error) {
	out, err := r.Run(ctx, repoPath, "branch", "--no-color")
	if err != nil {
		return nil, err
	}
	return ParseBranchList(out), nil
}

// ParseBranchList parses the output of git branch.
// Handles "branch", "* branch" (current) and "+ branch" (in another worktree)
// formats. Blank lines and detached HEAD entries are skipped.
func ParseBranchList(out string) []Branch {
	var branches []Branch
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")

		var b Branch
		switch {
		case strings.HasPrefix(line, "* "):
			b.Current = true
			line = line[2:]
		case strings.HasPrefix(line, "+ "):
			b.Worktree = true
			line = line[2:]
		}

		name := strings.TrimSpace(line)
		if name == "" || isDetachedEntry(name) {
			continue
		}
		b.Name = name
		branches = append(branches, b)
	}
	return branches
}

// DeleteBranch force-deletes a local branch with git branch -D.
// git refuses to delete the checked-out branch; that surfaces as an error
// like any other failure.
func DeleteBranch(ctx context.Context, r Runner, repoPath, branch string) error {
	_, err := r.Run(ctx, repoPath, "branch", "-D", branch)
	return err
}

// isDetachedEntry matches the pseudo entries git prints for a detached HEAD,
// e.g. "(HEAD detached at 1a2b3c4)" or "(no branch, rebasing main)".
func isDetachedEntry(name string) bool {
	return strings.HasPrefix(name, "(HEAD detached") ||
		strings.HasPrefix(name, "(no branch") ||
		strings.HasPrefix(name, "(detached")
}
