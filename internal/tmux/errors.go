package tmux

import (
	"errors"
	"strings"
)

// Sentinel errors. A *CommandError matches one of these under errors.Is when
// its stderr contains the corresponding tmux message; lookups that find no
// row wrap them directly.
var (
	ErrTmuxNotFound     = errors.New("tmux not found")
	ErrNoServer         = errors.New("no tmux server running")
	ErrSessionNotFound  = errors.New("session not found")
	ErrWindowNotFound   = errors.New("window not found")
	ErrPaneNotFound     = errors.New("pane not found")
	ErrPaneTooSmall     = errors.New("pane too small")
	ErrUnknownOption    = errors.New("unknown option")
	ErrDuplicateSession = errors.New("duplicate session")
)

// stderrPatterns maps each sentinel to the tmux messages that indicate it.
// Matching is case-insensitive substring matching, because the exact text
// varies between tmux releases.
var stderrPatterns = map[error][]string{
	ErrNoServer: {
		"no server running",
		"error connecting to",
		"server exited unexpectedly",
	},
	ErrSessionNotFound:  {"can't find session", "session not found"},
	ErrWindowNotFound:   {"can't find window", "window not found"},
	ErrPaneNotFound:     {"can't find pane", "pane not found"},
	ErrPaneTooSmall:     {"pane too small", "no space for new pane", "create pane failed"},
	ErrUnknownOption:    {"unknown option", "invalid option", "ambiguous option"},
	ErrDuplicateSession: {"duplicate session"},
}

// CommandError reports a tmux command that wrote to stderr. The stderr text
// is kept verbatim; there is no recovery or retry.
type CommandError struct {
	// Args is the tmux argv that failed.
	Args []string

	// Stderr holds the raw stderr lines.
	Stderr []string
}

// Error returns "tmux <subcommand>: <stderr>".
func (e *CommandError) Error() string {
	return "tmux " + e.subcommand() + ": " + strings.Join(e.Stderr, "; ")
}

// Is reports whether the stderr text corresponds to target.
func (e *CommandError) Is(target error) bool {
	patterns, ok := stderrPatterns[target]
	if !ok {
		return false
	}
	text := strings.ToLower(strings.Join(e.Stderr, "\n"))
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// subcommand returns the first non-flag argument, skipping the global
// server flags (-L name, -S path, -f file, -2, -8).
func (e *CommandError) subcommand() string {
	for i := 0; i < len(e.Args); i++ {
		arg := e.Args[i]
		switch arg {
		case "-L", "-S", "-f":
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return strings.Join(e.Args, " ")
}
