// Package runner executes answer source code in a child process with a
// wall-clock limit.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrExecutionTimeout = errors.New("execution timed out")
	ErrExecutionFailure = errors.New("execution failed")
	ErrNotExecutable    = errors.New("language is not executable")
	ErrEmptySource      = errors.New("empty source")
)

const (
	DefaultTimeout     = 6 * time.Second
	DefaultInterpreter = "python3"

	// waitDelay bounds how long Wait blocks on output pipes held open by
	// grandchildren after the interpreter itself is killed.
	waitDelay = time.Second
)

// Output is what a finished child process produced. A non-zero exit code is
// a normal result, not an error.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Outcome is delivered by Start once a run finishes.
type Outcome struct {
	Output Output
	Err    error
}

type interpreter struct {
	args []string
	ext  string
}

// Runner maps languages to interpreter commands. It holds no per-run state
// and is safe for concurrent use.
type Runner struct {
	interpreters map[string]interpreter
	timeout      time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the wall-clock limit per run. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithInterpreter registers command (split on spaces) for language. The
// source file path is appended as the last argument.
func WithInterpreter(language, command, ext string) Option {
	return func(r *Runner) {
		args := strings.Fields(command)
		if len(args) == 0 {
			return
		}
		r.interpreters[strings.ToLower(language)] = interpreter{args: args, ext: ext}
	}
}

// New returns a runner that executes Python with DefaultInterpreter.
func New(opts ...Option) *Runner {
	r := &Runner{
		interpreters: map[string]interpreter{
			"python": {args: []string{DefaultInterpreter}, ext: ".py"},
		},
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Timeout returns the per-run limit.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// CanRun reports whether language has an interpreter.
func (r *Runner) CanRun(language string) bool {
	_, ok := r.interpreters[strings.ToLower(language)]
	return ok
}

// Run writes source to a temporary file, executes it and captures its output.
// On timeout the child is killed and ErrExecutionTimeout is returned along
// with whatever output was captured.
func (r *Runner) Run(ctx context.Context, language, source string) (Output, error) {
	if strings.TrimSpace(source) == "" {
		return Output{}, ErrEmptySource
	}
	in, ok := r.interpreters[strings.ToLower(language)]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrNotExecutable, language)
	}

	path, err := writeSource(source, in.ext)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
	}
	defer os.Remove(path)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, in.args[0], append(in.args[1:], path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()
	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		return out, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		slog.Warn("execution timed out", "language", language, "timeout", r.timeout)
		return out, ErrExecutionTimeout
	case err == nil:
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	out.ExitCode = -1
	slog.Debug("execution failed", "language", language, "error", err)
	return out, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
}

// Start runs source on its own goroutine. The channel receives exactly one
// Outcome and is then closed.
func (r *Runner) Start(ctx context.Context, language, source string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		out, err := r.Run(ctx, language, source)
		ch <- Outcome{Output: out, Err: err}
	}()
	return ch
}

func writeSource(source, ext string) (string, error) {
	f, err := os.CreateTemp("", "examportal-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(source + "\n"); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
