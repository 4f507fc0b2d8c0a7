package tmux

import (
	"context"
	"strings"
	"testing"
)

// fakeTmux is an in-memory Runner that records every argv it receives and
// answers each tmux subcommand from a handler table. Subcommands without a
// handler succeed with empty output, which is what tmux does for most
// mutating commands.
type fakeTmux struct {
	calls    [][]string
	handlers map[string]func(args []string) *Result
}

func newFakeTmux() *fakeTmux {
	return &fakeTmux{handlers: map[string]func(args []string) *Result{}}
}

func (f *fakeTmux) Run(_ context.Context, args ...string) (*Result, error) {
	f.calls = append(f.calls, args)
	sub := (&CommandError{Args: args}).subcommand()
	if h, ok := f.handlers[sub]; ok {
		res := h(args)
		res.Args = args
		return res, nil
	}
	return &Result{Args: args}, nil
}

// on registers fixed stdout lines for a subcommand.
func (f *fakeTmux) on(sub string, stdout ...string) {
	f.handlers[sub] = func([]string) *Result { return &Result{Stdout: stdout} }
}

// fail registers a stderr message for a subcommand.
func (f *fakeTmux) fail(sub, stderr string) {
	f.handlers[sub] = func([]string) *Result {
		return &Result{Stderr: []string{stderr}, ExitCode: 1}
	}
}

// callsTo returns the recorded argv of every call to sub, in order.
func (f *fakeTmux) callsTo(sub string) [][]string {
	var out [][]string
	for _, args := range f.calls {
		if (&CommandError{Args: args}).subcommand() == sub {
			out = append(out, args)
		}
	}
	return out
}

// lastCall returns the argv of the most recent call to sub, or nil.
func (f *fakeTmux) lastCall(sub string) []string {
	calls := f.callsTo(sub)
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

// formatLine renders values in the column order tmux would print them for
// the given -F fields. Fields missing from values print as empty.
func formatLine(fields []string, values map[string]string) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = values[f]
	}
	return strings.Join(cols, formatSeparator)
}

// devFixture wires a fake server with one session "dev" ($1) holding two
// windows: "editor" (@1, active, panes %1 active and %2) and "logs" (@2,
// pane %3).
func devFixture(t *testing.T) (*fakeTmux, *Server) {
	t.Helper()

	f := newFakeTmux()
	f.on("list-sessions",
		formatLine(SessionFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "session_windows": "2", "session_attached": "1",
		}),
	)
	f.on("list-windows",
		formatLine(WindowFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "window_id": "@1",
			"window_index": "0", "window_name": "editor", "window_active": "1", "window_panes": "2",
		}),
		formatLine(WindowFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "window_id": "@2",
			"window_index": "1", "window_name": "logs", "window_active": "0", "window_panes": "1",
		}),
	)
	f.on("list-panes",
		formatLine(paneListFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "window_id": "@1", "window_index": "0",
			"pane_id": "%1", "pane_index": "0", "pane_active": "1", "pane_current_path": "/src",
		}),
		formatLine(paneListFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "window_id": "@1", "window_index": "0",
			"pane_id": "%2", "pane_index": "1", "pane_active": "0",
		}),
		formatLine(paneListFormats, map[string]string{
			"session_id": "$1", "session_name": "dev", "window_id": "@2", "window_index": "1",
			"pane_id": "%3", "pane_index": "0", "pane_active": "1",
		}),
	)
	return f, NewServer(f)
}

// devWindow returns the "editor" window of devFixture.
func devWindow(t *testing.T) (*fakeTmux, *Window) {
	t.Helper()

	f, srv := devFixture(t)
	w, err := srv.ResolveWindow(context.Background(), "dev:editor")
	if err != nil {
		t.Fatalf("resolve fixture window: %v", err)
	}
	return f, w
}
