package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/branch-cleanup/internal/cmd"
	"github.com/raphi011/branch-cleanup/internal/git"
)

// These tests run the real git binary against repositories in t.TempDir().

func resolveTempDir(t *testing.T) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return resolved
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if _, err := cmd.CombinedOutputContext(context.Background(), dir, nil, "git", args...); err != nil {
		t.Fatalf("git %v in %s: %v", args, dir, err)
	}
}

// setupRepo creates a repository with an initial commit on main and the
// given extra branches.
func setupRepo(t *testing.T, path string, branches ...string) {
	t.Helper()

	runGit(t, "", "init", "-b", "main", path)
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		runGit(t, path, args...)
	}
	if err := os.WriteFile(filepath.Join(path, "README.md"), []byte("# test\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, path, "add", "README.md")
	runGit(t, path, "commit", "-m", "Initial commit")

	for _, b := range branches {
		runGit(t, path, "branch", b)
	}
}

func TestEngine_RealGit(t *testing.T) {
	t.Parallel()

	root := resolveTempDir(t)
	a := filepath.Join(root, "A")
	b := filepath.Join(root, "group", "B")
	nested := filepath.Join(a, "vendor", "nested")

	setupRepo(t, a, "feature-x")
	setupRepo(t, b, "feature-x", "release/1")
	setupRepo(t, nested, "nested-feature")
	if err := os.MkdirAll(filepath.Join(root, "notes", "drafts"), 0755); err != nil {
		t.Fatal(err)
	}

	rules, err := CompileRules(DefaultBranchNames, []string{"^release/"})
	if err != nil {
		t.Fatal(err)
	}
	e := New(git.NewRunner(), Options{Rules: rules})
	ctx := context.Background()

	catalog, failures, err := e.Discover(ctx, []string{root})
	if err != nil {
		t.Fatalf("Discover() = %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("failures = %+v", failures)
	}
	if !slices.Equal(catalog.Repositories, []string{a, b}) {
		t.Fatalf("repositories = %v, want [%s %s]", catalog.Repositories, a, b)
	}

	deletable := catalog.Deletable()
	var targets []Target
	for _, entry := range deletable {
		targets = append(targets, entry.Target())
	}
	if len(targets) != 2 {
		t.Fatalf("deletable = %+v, want feature-x in both repositories", deletable)
	}

	// main is checked out, so git rejects it
	targets = append(targets, Target{Repository: a, Branch: "main"})

	outcomes := e.DeleteAll(ctx, targets)
	report := Summarize(outcomes, failures)
	if len(report.Deleted) != 2 || len(report.Failed) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Failed[0].Err == "" {
		t.Error("failed outcome has no error text")
	}

	branches, err := git.ListBranches(ctx, git.NewRunner(), b)
	if err != nil {
		t.Fatal(err)
	}
	for _, br := range branches {
		if br.Name == "feature-x" {
			t.Errorf("feature-x still present in %s", b)
		}
	}
}
