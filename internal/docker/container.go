package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/errdefs"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// InspectContainer looks up a container by ID or name and returns its
// runtime information.
//
// Returns a CLIError with ExitNotFound when no such container exists and
// ExitDockerNotRunning when the daemon cannot be queried.
func InspectContainer(ctx context.Context, cli *Client, ref string) (model.ContainerInfo, error) {
	resp, err := cli.Inner().ContainerInspect(ctx, ref)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return model.ContainerInfo{}, model.WrapCLIError(
				model.ExitNotFound,
				fmt.Sprintf("container %q not found", ref),
				err,
			)
		}
		return model.ContainerInfo{}, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to inspect container %q", ref),
			err,
		)
	}
	if resp.ContainerJSONBase == nil {
		return model.ContainerInfo{}, fmt.Errorf("container %q: empty inspect response", ref)
	}

	status := ""
	if resp.State != nil {
		status = resp.State.Status
	}
	var labels map[string]string
	if resp.Config != nil {
		labels = resp.Config.Labels
	}
	return newContainerInfo(resp.ID, resp.Name, status, labels), nil
}

// newContainerInfo builds a ContainerInfo from inspect fields. The API
// reports names with a leading "/", which is dropped for display.
func newContainerInfo(id, name, status string, labels map[string]string) model.ContainerInfo {
	return model.ContainerInfo{
		ContainerID:   id,
		ContainerName: strings.TrimPrefix(name, "/"),
		Status:        status,
		Labels:        labels,
	}
}

// RequireRunning inspects a container and fails unless it is running, since
// exec only works against running containers.
func RequireRunning(ctx context.Context, cli *Client, ref string) (model.ContainerInfo, error) {
	info, err := InspectContainer(ctx, cli, ref)
	if err != nil {
		return info, err
	}
	if !info.IsRunning() {
		return info, model.NewCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("container %q is %s, not running", info.ContainerName, info.Status),
		)
	}
	return info, nil
}
