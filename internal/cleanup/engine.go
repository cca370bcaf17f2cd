package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/branch-cleanup/internal/git"
	"github.com/raphi011/branch-cleanup/internal/log"
)

// Options configures an Engine.
type Options struct {
	// Rules classify enumerated branches.
	Rules Rules

	// Concurrency bounds concurrent git processes (0 = DefaultConcurrency).
	Concurrency int

	// Parallel deletes branches of different repositories concurrently.
	// Deletions within one repository are always sequential.
	Parallel bool

	// OnDeleted is called after every deletion attempt. It may be called
	// from several goroutines when Parallel is set, but never concurrently.
	OnDeleted func(DeletionOutcome)
}

// Engine discovers, classifies and deletes branches for one invocation.
type Engine struct {
	runner  git.Runner
	opts    Options
	locator *Locator
}

// New creates an Engine that runs git through r.
func New(r git.Runner, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Engine{
		runner:  r,
		opts:    opts,
		locator: NewLocator(r, opts.Concurrency),
	}
}

// Catalog is the classified branch list produced by Discover.
type Catalog struct {
	// Repositories lists every located repository, including those whose
	// branches could not be listed.
	Repositories []string
	Entries      []BranchEntry
}

// Discover locates the repositories below every root, lists their branches
// and classifies each one. Roots that are not readable directories are
// reported as failures; ErrNoRoots is returned only when no root is usable.
func (e *Engine) Discover(ctx context.Context, roots []string) (Catalog, []DiscoveryFailure, error) {
	usable, failures := ResolveRoots(roots)
	if len(usable) == 0 {
		return Catalog{}, failures, ErrNoRoots
	}

	repos := e.LocateAll(ctx, usable)
	log.FromContext(ctx).Debug("located repositories", "roots", len(usable), "repos", len(repos))

	catalog, enumFailures := e.enumerate(ctx, repos)
	return catalog, append(failures, enumFailures...), nil
}

// LocateAll locates repositories below each root concurrently and returns
// them in root order without duplicates.
func (e *Engine) LocateAll(ctx context.Context, roots []string) []string {
	results := make([][]string, len(roots))
	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			results[i] = e.locator.Locate(ctx, root)
			return nil
		})
	}
	_ = g.Wait()

	var all []string
	for _, r := range results {
		all = append(all, r...)
	}
	return dedupe(all)
}

// enumerate lists branches of all repositories in parallel.
// Results keep repository order, then git's branch order.
func (e *Engine) enumerate(ctx context.Context, repos []string) (Catalog, []DiscoveryFailure) {
	type repoResult struct {
		branches []git.Branch
		failure  *DiscoveryFailure
	}

	results := make([]repoResult, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i, repo := range repos {
		g.Go(func() error {
			branches, err := e.Branches(ctx, repo)
			if err != nil {
				results[i].failure = discoveryFailure(repo, err)
				return nil // never fail, failures are reported per repository
			}
			results[i].branches = branches
			return nil
		})
	}
	_ = g.Wait()

	catalog := Catalog{Repositories: repos}
	var failures []DiscoveryFailure
	for i, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		for _, b := range r.branches {
			catalog.Entries = append(catalog.Entries, BranchEntry{
				Repository:     repos[i],
				Branch:         b.Name,
				Classification: e.opts.Rules.Classify(b.Name),
				Current:        b.Current,
			})
		}
	}
	return catalog, failures
}

// Branches lists the local branches of repo. A failure is always an
// *EnumerationError.
func (e *Engine) Branches(ctx context.Context, repo string) ([]git.Branch, error) {
	branches, err := git.ListBranches(ctx, e.runner, repo)
	if err != nil {
		return nil, &EnumerationError{Repository: repo, Detail: git.ErrorOutput(err)}
	}
	return branches, nil
}

func discoveryFailure(repo string, err error) *DiscoveryFailure {
	var enumErr *EnumerationError
	if errors.As(err, &enumErr) {
		return &DiscoveryFailure{Repository: enumErr.Repository, Err: enumErr.Detail}
	}
	return &DiscoveryFailure{Repository: repo, Err: err.Error()}
}

// ResolveRoots makes roots absolute and keeps those that are directories.
// The others are returned as failures.
func ResolveRoots(roots []string) (usable []string, failures []DiscoveryFailure) {
	seen := make(map[string]bool)
	for _, root := range roots {
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			failures = append(failures, DiscoveryFailure{Repository: root, Err: err.Error()})
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			failures = append(failures, DiscoveryFailure{Repository: abs, Err: err.Error()})
			continue
		}
		if !info.IsDir() {
			failures = append(failures, DiscoveryFailure{Repository: abs, Err: fmt.Sprintf("%s is not a directory", abs)})
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		usable = append(usable, abs)
	}
	return usable, failures
}

// Deletable returns the entries classified Deletable.
func (c Catalog) Deletable() []BranchEntry {
	var out []BranchEntry
	for _, e := range c.Entries {
		if e.Classification == Deletable {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds the entry for a repository and branch.
func (c Catalog) Lookup(repo, branch string) (BranchEntry, bool) {
	for _, e := range c.Entries {
		if e.Repository == repo && e.Branch == branch {
			return e, true
		}
	}
	return BranchEntry{}, false
}

// Select checks a selection against the catalog before it is handed to the
// deleter. Every target must be a Deletable entry; otherwise a
// *RejectedError lists the offending targets and nothing is returned.
func (c Catalog) Select(targets []Target) ([]Target, error) {
	var rejected RejectedError
	for _, t := range targets {
		entry, ok := c.Lookup(t.Repository, t.Branch)
		switch {
		case !ok:
			rejected.Targets = append(rejected.Targets, t)
			rejected.Reasons = append(rejected.Reasons, "unknown branch")
		case entry.Classification != Deletable:
			rejected.Targets = append(rejected.Targets, t)
			rejected.Reasons = append(rejected.Reasons, entry.Classification.String()+" branch")
		}
	}
	if len(rejected.Targets) > 0 {
		return nil, &rejected
	}
	return targets, nil
}
