package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/raphi011/branch-cleanup/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestCombinedOutputContext_Success(t *testing.T) {
	t.Parallel()
	out, err := CombinedOutputContext(logCtx(), "", nil, "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("CombinedOutputContext = %v, want nil", err)
	}
	got := string(out)
	if !strings.Contains(got, "out\n") || !strings.Contains(got, "err\n") {
		t.Errorf("CombinedOutputContext output = %q, want both streams", got)
	}
}

func TestCombinedOutputContext_ExitError(t *testing.T) {
	t.Parallel()
	out, err := CombinedOutputContext(logCtx(), "", nil, "sh", "-c", "echo 'branch not fully merged' >&2; exit 1")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("CombinedOutputContext error = %v (%T), want *ExitError", err, err)
	}
	if exitErr.Code != 1 {
		t.Errorf("ExitError.Code = %d, want 1", exitErr.Code)
	}
	if exitErr.Error() != "branch not fully merged" {
		t.Errorf("ExitError.Error() = %q, want %q", exitErr.Error(), "branch not fully merged")
	}
	if string(out) != exitErr.Output {
		t.Errorf("output = %q, want it to match ExitError.Output %q", out, exitErr.Output)
	}
}

func TestCombinedOutputContext_EmptyOutputMessage(t *testing.T) {
	t.Parallel()
	_, err := CombinedOutputContext(logCtx(), "", nil, "sh", "-c", "exit 3")
	if err == nil || err.Error() != "exit status 3" {
		t.Errorf("CombinedOutputContext error = %v, want %q", err, "exit status 3")
	}
}

func TestCombinedOutputContext_Env(t *testing.T) {
	t.Parallel()
	out, err := CombinedOutputContext(logCtx(), "", []string{"BC_TEST_VALUE=42"}, "sh", "-c", "echo $BC_TEST_VALUE")
	if err != nil {
		t.Fatalf("CombinedOutputContext = %v, want nil", err)
	}
	if got := strings.TrimSpace(string(out)); got != "42" {
		t.Errorf("output = %q, want %q", got, "42")
	}
}

func TestCombinedOutputContext_Dir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out, err := CombinedOutputContext(logCtx(), dir, nil, "pwd")
	if err != nil {
		t.Fatalf("CombinedOutputContext = %v, want nil", err)
	}
	if strings.TrimSpace(string(out)) == "" {
		t.Error("pwd printed nothing")
	}
}

func TestCombinedOutputContext_MissingBinary(t *testing.T) {
	t.Parallel()
	_, err := CombinedOutputContext(logCtx(), "", nil, "branch-cleanup-no-such-binary")
	if err == nil {
		t.Fatal("CombinedOutputContext = nil, want error")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("missing binary reported as exit error: %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want exec.ErrNotFound", err)
	}
}

func TestCombinedOutputContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	_, err := CombinedOutputContext(ctx, "", nil, "sleep", "10")
	if err != context.Canceled {
		t.Errorf("CombinedOutputContext error = %v, want context.Canceled", err)
	}
}

func TestCombinedOutputContext_LogsCommand(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if _, err := CombinedOutputContext(ctx, "", nil, "echo", "hi"); err != nil {
		t.Fatalf("CombinedOutputContext = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "$ echo hi") {
		t.Errorf("log output = %q, want prefix %q", buf.String(), "$ echo hi")
	}
}
