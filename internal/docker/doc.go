// Package docker lets tmux-workspace drive a tmux server that runs inside
// a Docker container.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - container lookup (InspectContainer, RequireRunning)
//   - ExecRunner, a tmux.Runner backed by the Engine exec API
//
// The package uses github.com/docker/docker/client as the underlying SDK,
// with API version negotiation enabled for broad daemon compatibility.
package docker
