package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is wrapped into the error returned by Run when a command is
// killed because its timeout elapsed.
var ErrTimeout = errors.New("command timed out")

// Command describes a single external process invocation.
type Command struct {
	// Path is the binary name or absolute path to execute (required).
	Path string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. Empty means the caller's directory.
	Dir string
	// Env is the environment in "KEY=value" form. Nil inherits the parent.
	Env []string
	// Timeout bounds the execution. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// ExecResult holds the captured outcome of a finished command.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands. It is the seam that lets tests
// substitute scripted results for real subprocesses.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*ExecResult, error)
}

// ExecRunner runs commands with os/exec. A non-zero exit code is not an
// error: the result carries the code and the caller decides. Only failures
// to execute at all (binary missing, timeout, cancellation) return an error.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) (*ExecResult, error) {
	if cmd.Path == "" {
		return nil, errors.New("command path is required")
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	res := &ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("%s: %w after %v", cmd.Path, ErrTimeout, cmd.Timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return res, fmt.Errorf("%s: %w", cmd.Path, context.Canceled)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", cmd.Path, err)
	}

	return res, nil
}

// String renders the invocation for logs and error messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}
