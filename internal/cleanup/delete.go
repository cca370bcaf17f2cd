package cleanup

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/branch-cleanup/internal/git"
	"github.com/raphi011/branch-cleanup/internal/log"
)

// DeleteAll deletes every target and returns one outcome per target, in
// input order. A failed deletion is recorded and never stops the batch.
//
// No classification happens here: callers check the selection with
// Catalog.Select first.
func (e *Engine) DeleteAll(ctx context.Context, targets []Target) []DeletionOutcome {
	outcomes := make([]DeletionOutcome, len(targets))
	if len(targets) == 0 {
		return outcomes
	}

	var mu sync.Mutex
	record := func(i int, o DeletionOutcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes[i] = o
		if e.opts.OnDeleted != nil {
			e.opts.OnDeleted(o)
		}
	}

	if !e.opts.Parallel {
		for i, t := range targets {
			record(i, e.deleteOne(ctx, t))
		}
		return outcomes
	}

	// One goroutine per repository; git mutates the repository's refs, so
	// deletions inside a repository stay sequential.
	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for _, indices := range groupByRepository(targets) {
		g.Go(func() error {
			for _, i := range indices {
				record(i, e.deleteOne(ctx, targets[i]))
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// DeleteSelected deletes the targets and partitions the outcomes.
func (e *Engine) DeleteSelected(ctx context.Context, targets []Target) (deleted, failed []DeletionOutcome) {
	r := Summarize(e.DeleteAll(ctx, targets), nil)
	return r.Deleted, r.Failed
}

func (e *Engine) deleteOne(ctx context.Context, t Target) DeletionOutcome {
	outcome := DeletionOutcome{Repository: t.Repository, Branch: t.Branch}

	if err := git.DeleteBranch(ctx, e.runner, t.Repository, t.Branch); err != nil {
		outcome.Err = git.ErrorOutput(err)
		log.FromContext(ctx).Debug("delete failed", "repo", t.Repository, "branch", t.Branch, "err", outcome.Err)
		return outcome
	}

	outcome.Success = true
	return outcome
}

// groupByRepository returns target indices grouped by repository, groups
// ordered by first appearance.
func groupByRepository(targets []Target) [][]int {
	var groups [][]int
	index := make(map[string]int)
	for i, t := range targets {
		g, ok := index[t.Repository]
		if !ok {
			g = len(groups)
			index[t.Repository] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
