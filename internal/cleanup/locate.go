package cleanup

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/branch-cleanup/internal/git"
	"github.com/raphi011/branch-cleanup/internal/log"
)

// DefaultConcurrency bounds concurrent git processes.
const DefaultConcurrency = 8

// Locator finds the repositories below a root directory.
type Locator struct {
	runner git.Runner
	sem    chan struct{}
}

// NewLocator creates a Locator that runs at most concurrency git processes
// at a time. A non-positive value uses DefaultConcurrency.
func NewLocator(r git.Runner, concurrency int) *Locator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Locator{runner: r, sem: make(chan struct{}, concurrency)}
}

// Locate returns the top-level paths of the repositories reachable from root.
//
// If root is inside a repository, only that repository is returned; nested
// repositories are not searched for. Otherwise every subdirectory is
// searched concurrently. Subtrees that cannot be read or where git fails
// for another reason contribute nothing.
func (l *Locator) Locate(ctx context.Context, root string) []string {
	return dedupe(l.locate(ctx, root))
}

func (l *Locator) locate(ctx context.Context, dir string) []string {
	logger := log.FromContext(ctx)

	top, err := l.topLevel(ctx, dir)
	if err == nil {
		return []string{top}
	}
	if !git.IsNotRepository(err) {
		logger.Debug("skipping directory", "dir", dir, "err", git.ErrorOutput(err))
		return nil
	}

	subdirs, err := subdirectories(dir)
	if err != nil {
		logger.Debug("skipping unreadable directory", "dir", dir, "err", err)
		return nil
	}

	// Each goroutine owns its slot; the parent merges after Wait.
	results := make([][]string, len(subdirs))
	var g errgroup.Group
	for i, sub := range subdirs {
		g.Go(func() error {
			results[i] = l.locate(ctx, sub)
			return nil
		})
	}
	_ = g.Wait()

	var repos []string
	for _, r := range results {
		repos = append(repos, r...)
	}
	return repos
}

// topLevel runs git rev-parse while holding a process slot.
func (l *Locator) topLevel(ctx context.Context, dir string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()

	return git.TopLevel(ctx, l.runner, dir)
}

// subdirectories lists the immediate subdirectories of dir in name order.
// Symlinks are not followed and .git directories are skipped.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".git" {
			continue
		}
		dirs = append(dirs, filepath.Join(dir, entry.Name()))
	}
	return dirs, nil
}

// dedupe removes repeated paths, keeping the first occurrence.
func dedupe(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
