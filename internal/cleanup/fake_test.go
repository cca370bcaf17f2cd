package cleanup

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/raphi011/branch-cleanup/internal/cmd"
)

// fakeGit simulates git for a set of repositories rooted at absolute paths.
// Directories not below a repository answer "not a git repository".
type fakeGit struct {
	mu sync.Mutex

	repos      map[string][]string // repo path -> branches, first is current
	failing    map[string]string   // dir -> output of a non-repository failure
	listErr    map[string]string   // repo -> git branch failure
	deleteErr  map[string]string   // "repo|branch" -> git branch -D failure
	calls      []string
	inFlight   map[string]int
	maxPerRepo int
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		repos:     make(map[string][]string),
		failing:   make(map[string]string),
		listErr:   make(map[string]string),
		deleteErr: make(map[string]string),
		inFlight:  make(map[string]int),
	}
}

func (f *fakeGit) addRepo(path string, branches ...string) {
	f.repos[path] = branches
}

func (f *fakeGit) Run(_ context.Context, dir string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, dir+" "+strings.Join(args, " "))
	f.mu.Unlock()

	switch {
	case len(args) == 2 && args[0] == "rev-parse":
		return f.revParse(dir)
	case len(args) == 2 && args[0] == "branch":
		return f.listBranches(dir)
	case len(args) == 3 && args[0] == "branch" && args[1] == "-D":
		return f.deleteBranch(dir, args[2])
	}
	return "", fmt.Errorf("unexpected git call: %v", args)
}

func (f *fakeGit) revParse(dir string) (string, error) {
	if out, ok := f.failing[dir]; ok {
		return "", &cmd.ExitError{Code: 128, Output: out}
	}
	for d := dir; ; d = filepath.Dir(d) {
		if _, ok := f.repos[d]; ok {
			return d + "\n", nil
		}
		if d == filepath.Dir(d) {
			break
		}
	}
	return "", &cmd.ExitError{Code: 128, Output: "fatal: not a git repository (or any of the parent directories): .git\n"}
}

func (f *fakeGit) listBranches(repo string) (string, error) {
	if out, ok := f.listErr[repo]; ok {
		return "", &cmd.ExitError{Code: 128, Output: out}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var b strings.Builder
	for i, name := range f.repos[repo] {
		if i == 0 {
			b.WriteString("* ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (f *fakeGit) deleteBranch(repo, branch string) (string, error) {
	f.mu.Lock()
	f.inFlight[repo]++
	f.maxPerRepo = max(f.maxPerRepo, f.inFlight[repo])
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight[repo]--
		f.mu.Unlock()
	}()

	if out, ok := f.deleteErr[repo+"|"+branch]; ok {
		return out, &cmd.ExitError{Code: 1, Output: out}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	branches := f.repos[repo]
	for i, name := range branches {
		if name != branch {
			continue
		}
		if i == 0 {
			msg := fmt.Sprintf("error: cannot delete branch '%s' used by worktree at '%s'\n", branch, repo)
			return msg, &cmd.ExitError{Code: 1, Output: msg}
		}
		f.repos[repo] = append(branches[:i:i], branches[i+1:]...)
		return fmt.Sprintf("Deleted branch %s (was 1a2b3c4).\n", branch), nil
	}
	msg := fmt.Sprintf("error: branch '%s' not found.\n", branch)
	return msg, &cmd.ExitError{Code: 1, Output: msg}
}

func (f *fakeGit) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, prefix) {
			n++
		}
	}
	return n
}
