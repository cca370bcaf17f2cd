package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return ErrGitNotFound
	}
	return nil
}

// TopLevel returns the top-level working directory of the repository
// containing dir, using git rev-parse --show-toplevel.
// Use IsNotRepository on the error to tell "not a repository" apart from
// other failures.
func TopLevel(ctx context.Context, r Runner, dir string) (string, error) {
	out, err := r.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}

	// stderr is interleaved, so warnings may precede the path
	lines := strings.Split(strings.TrimSpace(out), "\n")
	top := strings.TrimSpace(lines[len(lines)-1])
	if top == "" {
		return "", fmt.Errorf("git rev-parse printed no top-level for %s", dir)
	}
	return filepath.Clean(filepath.FromSlash(top)), nil
}
