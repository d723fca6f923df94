package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func newShellRunner(t *testing.T, timeout time.Duration) *Runner {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return New(WithInterpreter("Shell", "sh", ".sh"), WithTimeout(timeout))
}

func TestRun(t *testing.T) {
	r := newShellRunner(t, 5*time.Second)

	tests := []struct {
		name       string
		source     string
		wantStdout string
		wantStderr string
		wantCode   int
	}{
		{"stdout", "echo hello", "hello\n", "", 0},
		{"stderr", "echo oops >&2", "", "oops\n", 0},
		{"exit code", "echo partial; exit 3", "partial\n", "", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Run(context.Background(), "shell", tt.source)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out.Stdout != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", out.Stdout, tt.wantStdout)
			}
			if out.Stderr != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", out.Stderr, tt.wantStderr)
			}
			if out.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", out.ExitCode, tt.wantCode)
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	r := newShellRunner(t, 200*time.Millisecond)
	start := time.Now()
	out, err := r.Run(context.Background(), "Shell", "echo started\nexec sleep 5")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("Run error = %v, want ErrExecutionTimeout", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
	if !strings.Contains(out.Stdout, "started") {
		t.Errorf("expected partial output, got %q", out.Stdout)
	}
}

func TestRunFailures(t *testing.T) {
	r := newShellRunner(t, time.Second)

	if _, err := r.Run(context.Background(), "shell", "  \n\t"); !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source error = %v, want ErrEmptySource", err)
	}
	if _, err := r.Run(context.Background(), "Java", "class A {}"); !errors.Is(err, ErrNotExecutable) {
		t.Errorf("Java error = %v, want ErrNotExecutable", err)
	}
	if _, err := r.Run(context.Background(), "shell", "kill -9 $$"); !errors.Is(err, ErrExecutionFailure) {
		t.Errorf("signal death error = %v, want ErrExecutionFailure", err)
	}

	missing := New(WithInterpreter("Python", "/nonexistent/python3", ".py"))
	if _, err := missing.Run(context.Background(), "Python", "print(1)"); !errors.Is(err, ErrExecutionFailure) {
		t.Errorf("missing interpreter error = %v, want ErrExecutionFailure", err)
	}
}

func TestStart(t *testing.T) {
	r := newShellRunner(t, 5*time.Second)
	ch := r.Start(context.Background(), "shell", "echo async")
	select {
	case o := <-ch:
		if o.Err != nil {
			t.Fatalf("Outcome.Err = %v", o.Err)
		}
		if o.Output.Stdout != "async\n" {
			t.Errorf("Stdout = %q, want %q", o.Output.Stdout, "async\n")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome")
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after one outcome")
	}
}

func TestDefaults(t *testing.T) {
	r := New(WithTimeout(0))
	if r.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", r.Timeout(), DefaultTimeout)
	}
	if !r.CanRun("python") || !r.CanRun("Python") {
		t.Error("python should be runnable by default")
	}
	if r.CanRun("C") {
		t.Error("C should not be runnable")
	}
}
