package cleanup

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestDeleteAll_MixedOutcomes(t *testing.T) {
	t.Parallel()

	f := newFakeGit()
	f.addRepo("/src/A", "main", "feature-x")
	f.addRepo("/src/B", "main", "feature-y")
	f.deleteErr["/src/B|feature-y"] = "branch not fully merged"

	e := New(f, Options{})
	got := e.DeleteAll(context.Background(), []Target{
		{Repository: "/src/A", Branch: "feature-x"},
		{Repository: "/src/B", Branch: "feature-y"},
	})

	want := []DeletionOutcome{
		{Repository: "/src/A", Branch: "feature-x", Success: true},
		{Repository: "/src/B", Branch: "feature-y", Err: "branch not fully merged"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeleteAll() = %+v\nwant %+v", got, want)
	}
}

func TestDeleteAll_PartialFailureIsolation(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newFakeGit()
			f.addRepo("/r1", "main", "a", "b", "c")
			f.addRepo("/r2", "main", "d", "e")

			targets := []Target{
				{Repository: "/r1", Branch: "a"},
				{Repository: "/r2", Branch: "d"},
				{Repository: "/r1", Branch: "gone"}, // not found
				{Repository: "/r1", Branch: "b"},
				{Repository: "/r2", Branch: "e"},
				{Repository: "/r1", Branch: "c"},
			}

			var mu sync.Mutex
			var seen int
			e := New(f, Options{Parallel: parallel, Concurrency: 4, OnDeleted: func(DeletionOutcome) {
				mu.Lock()
				seen++
				mu.Unlock()
			}})
			outcomes := e.DeleteAll(context.Background(), targets)

			if len(outcomes) != len(targets) {
				t.Fatalf("got %d outcomes, want %d", len(outcomes), len(targets))
			}
			failed := 0
			for i, o := range outcomes {
				if o.Repository != targets[i].Repository || o.Branch != targets[i].Branch {
					t.Errorf("outcome %d = %+v, out of input order", i, o)
				}
				if !o.Success {
					failed++
					if o.Err == "" {
						t.Errorf("failed outcome %+v has no error text", o)
					}
				}
			}
			if failed != 1 || outcomes[2].Success {
				t.Errorf("outcomes = %+v, want exactly the missing branch to fail", outcomes)
			}
			if seen != len(targets) {
				t.Errorf("OnDeleted called %d times, want %d", seen, len(targets))
			}
			if f.maxPerRepo > 1 {
				t.Errorf("%d concurrent deletions in one repository", f.maxPerRepo)
			}
		})
	}
}

func TestDeleteAll_CurrentBranchIsOrdinaryFailure(t *testing.T) {
	t.Parallel()

	f := newFakeGit()
	f.addRepo("/r", "topic", "other")

	outcomes := New(f, Options{}).DeleteAll(context.Background(), []Target{
		{Repository: "/r", Branch: "topic"},
		{Repository: "/r", Branch: "other"},
	})

	if outcomes[0].Success || !strings.Contains(outcomes[0].Err, "cannot delete branch 'topic'") {
		t.Errorf("outcome[0] = %+v, want checked-out failure", outcomes[0])
	}
	if !outcomes[1].Success {
		t.Errorf("outcome[1] = %+v, want success", outcomes[1])
	}
}

func TestDeleteAll_Empty(t *testing.T) {
	t.Parallel()

	f := newFakeGit()
	if got := New(f, Options{}).DeleteAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("DeleteAll(nil) = %v, want empty", got)
	}
	if n := f.callCount(""); n != 0 {
		t.Errorf("git ran %d times", n)
	}
}

func TestDeleteSelected(t *testing.T) {
	t.Parallel()

	f := newFakeGit()
	f.addRepo("/r", "main", "ok", "bad")
	f.deleteErr["/r|bad"] = "error: some failure"

	deleted, failed := New(f, Options{}).DeleteSelected(context.Background(), []Target{
		{Repository: "/r", Branch: "ok"},
		{Repository: "/r", Branch: "bad"},
	})
	if len(deleted) != 1 || deleted[0].Branch != "ok" {
		t.Errorf("deleted = %+v", deleted)
	}
	if len(failed) != 1 || failed[0].Branch != "bad" || failed[0].Err != "error: some failure" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestGroupByRepository(t *testing.T) {
	t.Parallel()

	got := groupByRepository([]Target{
		{Repository: "/b", Branch: "1"},
		{Repository: "/a", Branch: "2"},
		{Repository: "/b", Branch: "3"},
	})
	want := [][]int{{0, 2}, {1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groupByRepository() = %v, want %v", got, want)
	}
}
