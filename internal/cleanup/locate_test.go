package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// mkdirs creates the given directories below root.
func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
}

func TestLocate_RootIsRepository(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "nested/inner", "vendor/lib")

	f := newFakeGit()
	f.addRepo(root, "main")
	f.addRepo(filepath.Join(root, "nested", "inner"), "main")

	got := NewLocator(f, 4).Locate(context.Background(), root)
	if !slices.Equal(got, []string{root}) {
		t.Errorf("Locate() = %v, want [%s]", got, root)
	}
	if n := f.callCount("rev-parse"); n != 1 {
		t.Errorf("rev-parse ran %d times, want 1 (no descent into a repository)", n)
	}
}

func TestLocate_Recursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root,
		"a/src",
		"b",
		"group/c/sub",
		"group/empty",
		"group/deeper/d",
		"plain/nothing",
	)

	f := newFakeGit()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	c := filepath.Join(root, "group", "c")
	d := filepath.Join(root, "group", "deeper", "d")
	f.addRepo(a, "main")
	f.addRepo(b, "main")
	f.addRepo(c, "main")
	f.addRepo(d, "main")

	got := NewLocator(f, 4).Locate(context.Background(), root)
	want := []string{a, b, c, d}
	if !slices.Equal(got, want) {
		t.Errorf("Locate() = %v, want %v", got, want)
	}

	for _, repo := range got {
		for _, other := range got {
			if repo != other && isBelow(other, repo) {
				t.Errorf("%s reported inside reported repository %s", other, repo)
			}
		}
	}
}

func TestLocate_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "x/y/z", "p/q", "r")

	f := newFakeGit()
	f.addRepo(filepath.Join(root, "x", "y"), "main")
	f.addRepo(filepath.Join(root, "p", "q"), "main")
	f.addRepo(filepath.Join(root, "r"), "main")

	l := NewLocator(f, 2)
	first := l.Locate(context.Background(), root)
	second := l.Locate(context.Background(), root)
	if !slices.Equal(first, second) {
		t.Errorf("Locate() not idempotent: %v then %v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("Locate() = %v, want 3 repositories", first)
	}
}

func TestLocate_OtherFailureSkipsSubtree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "locked/repo", "ok")

	f := newFakeGit()
	f.failing[filepath.Join(root, "locked")] = "fatal: detected dubious ownership in repository\n"
	f.addRepo(filepath.Join(root, "locked", "repo"), "main")
	f.addRepo(filepath.Join(root, "ok"), "main")

	got := NewLocator(f, 4).Locate(context.Background(), root)
	want := []string{filepath.Join(root, "ok")}
	if !slices.Equal(got, want) {
		t.Errorf("Locate() = %v, want %v", got, want)
	}
}

func TestLocate_MissingRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "missing")
	f := newFakeGit()

	if got := NewLocator(f, 4).Locate(context.Background(), root); len(got) != 0 {
		t.Errorf("Locate(missing) = %v, want empty", got)
	}
}

func TestLocate_SkipsSymlinksAndGitDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "real", ".git/objects")
	target := t.TempDir()
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	f := newFakeGit()
	f.addRepo(filepath.Join(root, "real"), "main")
	f.addRepo(target, "main")

	got := NewLocator(f, 4).Locate(context.Background(), root)
	want := []string{filepath.Join(root, "real")}
	if !slices.Equal(got, want) {
		t.Errorf("Locate() = %v, want %v", got, want)
	}
	if n := f.callCount(filepath.Join(root, ".git")); n != 0 {
		t.Errorf("git ran inside .git %d times", n)
	}
}

func TestLocate_CancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "a", "b")
	f := newFakeGit()
	f.addRepo(filepath.Join(root, "a"), "main")

	// fill the only slot so the cancelled context wins the select
	l := NewLocator(f, 1)
	l.sem <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := l.Locate(ctx, root); len(got) != 0 {
		t.Errorf("Locate(cancelled) = %v, want empty", got)
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	got := dedupe([]string{"/a", "/b", "/a", "/c", "/b"})
	if want := []string{"/a", "/b", "/c"}; !slices.Equal(got, want) {
		t.Errorf("dedupe() = %v, want %v", got, want)
	}
	if got := dedupe(nil); got != nil {
		t.Errorf("dedupe(nil) = %v, want nil", got)
	}
}

func isBelow(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
