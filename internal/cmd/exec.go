package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/raphi011/branch-cleanup/internal/log"
)

// ExitError is returned when a command ran but exited with a non-zero status.
// Output holds stdout and stderr interleaved in arrival order.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Output); msg != "" {
		return msg
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// CombinedOutputContext executes a command in dir and returns stdout and stderr
// combined. env entries are appended to the current environment.
//
// A non-zero exit yields an *ExitError carrying the captured output. A command
// that could not be started returns the underlying exec error, and a cancelled
// context returns ctx.Err().
func CombinedOutputContext(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	if len(env) > 0 {
		c.Env = append(os.Environ(), env...)
	}

	var buf syncBuffer
	c.Stdout = &buf
	c.Stderr = &buf

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	out := buf.Bytes()
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &ExitError{Code: exitErr.ExitCode(), Output: string(out)}
	}
	return nil, err
}

// syncBuffer lets stdout and stderr share one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
