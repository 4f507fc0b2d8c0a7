package docker

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// ExecRunner is a tmux.Runner that runs tmux inside a container through the
// Engine exec API, so every tmux package operation works unchanged against
// a server living in a dev container.
//
// Each Run creates one exec instance, attaches to its multiplexed output,
// demultiplexes stdout from stderr and reads the exit code back.
type ExecRunner struct {
	cli  *Client
	info model.ContainerInfo

	// Binary is the tmux executable inside the container. Empty means
	// tmux.DefaultBinary.
	Binary string

	// User runs the command as a specific user ("1000", "vscode"). tmux
	// sockets are per-user, so this must match the user owning the server.
	User string

	// Env holds extra KEY=VALUE pairs for the exec.
	Env []string
}

// NewExecRunner creates an ExecRunner for a running container.
func NewExecRunner(ctx context.Context, cli *Client, ref, user string) (*ExecRunner, error) {
	info, err := RequireRunning(ctx, cli, ref)
	if err != nil {
		return nil, err
	}
	return &ExecRunner{cli: cli, info: info, User: user}, nil
}

// Container returns the container inspected when the runner was created.
func (r *ExecRunner) Container() model.ContainerInfo {
	return r.info
}

// Run executes tmux with args inside the container.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (*tmux.Result, error) {
	api := r.cli.Inner()

	created, err := api.ContainerExecCreate(ctx, r.info.ContainerID, container.ExecOptions{
		User:         r.User,
		Env:          r.Env,
		Cmd:          execCommand(r.Binary, args),
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create exec in %s: %w", shortID(r.info.ContainerID), err)
	}

	attached, err := api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("attach exec in %s: %w", shortID(r.info.ContainerID), err)
	}
	defer attached.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attached.Reader); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("read exec output: %w", err)
	}

	inspect, err := api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("inspect exec in %s: %w", shortID(r.info.ContainerID), err)
	}

	return buildResult(args, stdout.String(), stderr.String(), inspect.ExitCode)
}

// execCommand is the argv run in the container.
func execCommand(binary string, args []string) []string {
	if binary == "" {
		binary = tmux.DefaultBinary
	}
	return append([]string{binary}, args...)
}

// buildResult converts captured exec output into a tmux.Result with the
// same conventions as tmux.ExecRunner: a non-zero exit with no stderr is
// recorded as "exit status N", and a missing binary is ErrTmuxNotFound.
func buildResult(args []string, stdout, stderr string, exitCode int) (*tmux.Result, error) {
	res := &tmux.Result{
		Args:     args,
		Stdout:   tmux.SplitLines(stdout),
		Stderr:   tmux.SplitLines(stderr),
		ExitCode: exitCode,
	}

	// The runtime reports a failed exec on the attached stream with exit
	// code 126 or 127.
	if exitCode == 126 || exitCode == 127 {
		combined := stdout + stderr
		if strings.Contains(combined, "executable file not found") || strings.Contains(combined, "no such file or directory") {
			return nil, fmt.Errorf("%w: in container: %s", tmux.ErrTmuxNotFound, strings.TrimSpace(combined))
		}
	}

	if exitCode != 0 && len(res.Stderr) == 0 {
		res.Stderr = []string{fmt.Sprintf("exit status %d", exitCode)}
	}
	return res, nil
}

// shortID trims a container ID to the 12 characters docker prints.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
