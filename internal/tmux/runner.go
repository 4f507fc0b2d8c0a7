package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the tmux executable looked up on PATH when no explicit
// binary is configured.
const DefaultBinary = "tmux"

// Result is the captured outcome of a single tmux invocation.
//
// Stdout and Stderr are split into lines with the trailing newline removed,
// which is the shape every parser in this package consumes.
type Result struct {
	// Args is the argv passed to tmux (without the binary name).
	Args []string

	// Stdout holds the standard output lines.
	Stdout []string

	// Stderr holds the standard error lines. tmux reports nearly every
	// failure here, so a non-empty Stderr is treated as the command failing.
	Stderr []string

	// ExitCode is the process exit status.
	ExitCode int
}

// Err returns a *CommandError when the command wrote to stderr, or nil.
func (r *Result) Err() error {
	if r == nil || len(r.Stderr) == 0 {
		return nil
	}
	return &CommandError{Args: r.Args, Stderr: r.Stderr}
}

// Runner executes one tmux command and captures its output.
//
// Implementations return an error only when the command could not be run at
// all (binary missing, context cancelled, transport failure). A command that
// ran and failed is reported through Result.Stderr.
type Runner interface {
	Run(ctx context.Context, args ...string) (*Result, error)
}

// RunnerFunc adapts an ordinary function to the Runner interface.
type RunnerFunc func(ctx context.Context, args ...string) (*Result, error)

// Run calls f(ctx, args...).
func (f RunnerFunc) Run(ctx context.Context, args ...string) (*Result, error) {
	return f(ctx, args...)
}

// ExecRunner runs tmux as a local child process via os/exec.
type ExecRunner struct {
	// Binary is the tmux executable name or path. Empty means DefaultBinary.
	Binary string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// NewExecRunner creates an ExecRunner after verifying that the binary can
// be found. Returns ErrTmuxNotFound when it cannot.
func NewExecRunner(binary string) (*ExecRunner, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTmuxNotFound, binary, err)
	}
	return &ExecRunner{Binary: binary}, nil
}

// Run executes the binary with args, capturing stdout and stderr separately
// so that stderr can be surfaced verbatim while stdout is parsed.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (*Result, error) {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	// #nosec G204: argv is built by this package and never passed through a shell
	cmd := exec.CommandContext(ctx, binary, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := &Result{Args: args}
	err := cmd.Run()
	res.Stdout = SplitLines(stdout.String())
	res.Stderr = SplitLines(stderr.String())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never started.
			if errors.Is(err, exec.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrTmuxNotFound, binary)
			}
			return nil, fmt.Errorf("run %s %s: %w", binary, strings.Join(args, " "), err)
		}

		res.ExitCode = exitErr.ExitCode()
		if len(res.Stderr) == 0 {
			res.Stderr = []string{exitErr.Error()}
		}
	}

	return res, nil
}

// SplitLines splits command output into lines, dropping the single trailing
// empty element produced by a final newline. Empty output yields nil.
func SplitLines(output string) []string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}
