// Package model defines the domain types for the tmux-workspace CLI.
//
// Key design decision: the tmux server is the only source of truth.
// Nothing in this package is persisted; these are vocabularies and error
// types shared by the tmux, workspace, docker and cli packages.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Layout is a tmux window layout. It is either one of the preset names
// understood by `tmux select-layout`, or a custom layout string as printed
// by `#{window_layout}` (e.g. "bb62,159x48,0,0{79x48,0,0,0,79x48,80,0,1}").
type Layout string

const (
	// LayoutEvenHorizontal spreads panes out evenly from left to right.
	LayoutEvenHorizontal Layout = "even-horizontal"

	// LayoutEvenVertical spreads panes evenly from top to bottom.
	LayoutEvenVertical Layout = "even-vertical"

	// LayoutMainHorizontal shows a large pane at the top and the remaining
	// panes from left to right in the leftover space at the bottom.
	LayoutMainHorizontal Layout = "main-horizontal"

	// LayoutMainVertical is like LayoutMainHorizontal, but the large pane is
	// placed on the left and the others spread from top to bottom on the right.
	LayoutMainVertical Layout = "main-vertical"

	// LayoutTiled spreads panes as evenly as possible in rows and columns.
	LayoutTiled Layout = "tiled"
)

// customLayoutRegex matches the serialized layout tmux prints for
// #{window_layout}: a 4-digit hex checksum, a comma, then the geometry.
var customLayoutRegex = regexp.MustCompile(`^[0-9a-f]{4},\d+x\d+,\d+,\d+`)

// String returns the layout as passed on the tmux command line.
func (l Layout) String() string {
	return string(l)
}

// IsPreset reports whether the layout is one of the five named presets.
func (l Layout) IsPreset() bool {
	switch l {
	case LayoutEvenHorizontal, LayoutEvenVertical, LayoutMainHorizontal,
		LayoutMainVertical, LayoutTiled:
		return true
	default:
		return false
	}
}

// IsValid checks whether the layout is a preset or a custom layout string.
func (l Layout) IsValid() bool {
	return l.IsPreset() || customLayoutRegex.MatchString(string(l))
}

// ParseLayout converts a string to a Layout. Preset names are matched
// case-insensitively; custom layout strings are accepted verbatim.
func ParseLayout(s string) (Layout, error) {
	preset := Layout(strings.ToLower(strings.TrimSpace(s)))
	if preset.IsPreset() {
		return preset, nil
	}
	if custom := Layout(strings.TrimSpace(s)); custom.IsValid() {
		return custom, nil
	}
	return "", fmt.Errorf("invalid layout: %q (valid: even-horizontal, even-vertical, main-horizontal, main-vertical, tiled, or a custom layout string)", s)
}

// Direction is a relative pane movement for `tmux select-pane`.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"

	// DirectionLast selects the previously active pane.
	DirectionLast Direction = "last"
)

// directionFlags maps each direction to its select-pane flag.
var directionFlags = map[Direction]string{
	DirectionUp:    "-U",
	DirectionDown:  "-D",
	DirectionLeft:  "-L",
	DirectionRight: "-R",
	DirectionLast:  "-l",
}

// Flag returns the select-pane flag for the direction ("-U", "-D", ...),
// or an empty string for an unknown direction.
func (d Direction) Flag() string {
	return directionFlags[d]
}

// String returns the direction word.
func (d Direction) String() string {
	return string(d)
}

// ParseDirection accepts either a direction word ("up", "Left") or the raw
// select-pane flag ("-U", "-l"). The second return value is false when s is
// not a direction at all, which callers use to fall back to treating s as a
// pane target.
func ParseDirection(s string) (Direction, bool) {
	if d := Direction(strings.ToLower(s)); d.Flag() != "" {
		return d, true
	}
	for d, flag := range directionFlags {
		if s == flag {
			return d, true
		}
	}
	return "", false
}

// ValidateSessionName checks if the given name can be used as a tmux
// session name. tmux uses ':' and '.' as target separators
// (session:window.pane), so names containing them could never be targeted.
func ValidateSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("session name must not be empty")
	}
	if strings.ContainsAny(name, ":.") {
		return fmt.Errorf("invalid session name %q: must not contain ':' or '.'", name)
	}
	return nil
}

// ContainerInfo holds runtime information about a Docker container that is
// used as a remote tmux host. This data is fetched from the Docker API and
// never persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Status is the Docker container state (e.g., "running", "exited").
	Status string `json:"status"`

	// Labels is the full set of Docker labels on the container.
	Labels map[string]string `json:"labels,omitempty"`
}

// IsRunning reports whether the container can accept exec requests.
func (c ContainerInfo) IsRunning() bool {
	return c.Status == "running"
}

// ExitCode defines standard CLI exit codes. These codes allow scripts to
// programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitTmuxNotFound indicates the tmux binary is not installed or not on PATH.
	ExitTmuxNotFound ExitCode = 2

	// ExitTmuxError indicates a tmux subcommand wrote to stderr.
	ExitTmuxError ExitCode = 3

	// ExitNotFound indicates the targeted session, window or pane
	// does not exist on the tmux server.
	ExitNotFound ExitCode = 4

	// ExitWorkspaceNotFound indicates the workspace file could not be found.
	ExitWorkspaceNotFound ExitCode = 5

	// ExitWorkspaceInvalid indicates the workspace file failed to parse
	// or validate.
	ExitWorkspaceInvalid ExitCode = 6

	// ExitDockerNotRunning indicates the Docker daemon (or the target
	// container) is not accessible.
	ExitDockerNotRunning ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
