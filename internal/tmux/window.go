package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// Window is a snapshot of one tmux window.
//
// A Window is identified by its window_id ("@3"); every other field in the
// row is a copy taken when the window was listed and may be stale. Methods
// that act on the window address it by id, so they keep working after the
// window is renamed or moved.
type Window struct {
	session *Session
	row     Row
}

func newWindow(session *Session, row Row) *Window {
	return &Window{session: session, row: row}
}

// ID returns the window id, e.g. "@3".
func (w *Window) ID() string { return w.row.Get("window_id") }

// Index returns the window index within its session, as printed by tmux.
func (w *Window) Index() string { return w.row.Get("window_index") }

// Name returns the window name.
func (w *Window) Name() string { return w.row.Get("window_name") }

// Get returns a field from the snapshot row.
func (w *Window) Get(field string) string { return w.row.Get(field) }

// Row returns a copy of the snapshot row.
func (w *Window) Row() Row { return w.row.clone() }

// Session returns the session the window was listed in.
func (w *Window) Session() *Session { return w.session }

func (w *Window) server() *Server { return w.session.server }

// Target returns "<session_id>:<window_id>", the fully qualified -t target.
func (w *Window) Target() string {
	sessionID := w.row.Get("session_id")
	if sessionID == "" {
		sessionID = w.session.ID()
	}
	return sessionID + ":" + w.ID()
}

func (w *Window) String() string {
	return fmt.Sprintf("Window(%s %s:%s, %s)", w.ID(), w.Index(), w.Name(), w.session)
}

// Refresh re-reads the window row from the server.
func (w *Window) Refresh(ctx context.Context) error {
	rows, err := w.server().Windows(ctx)
	if err != nil {
		return err
	}
	row, ok := FindWhere(rows, map[string]string{"window_id": w.ID()})
	if !ok {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, w.ID())
	}
	w.row = row
	return nil
}

// SelectLayout arranges the window's panes.
//
//	$ tmux select-layout -t <target> <layout>
//
// layout is a preset (see model.Layout) or a custom layout string. An empty
// layout re-applies the window's current layout.
func (w *Window) SelectLayout(ctx context.Context, layout string) error {
	args := []string{"select-layout", "-t", w.Target()}
	if layout != "" {
		l, err := model.ParseLayout(layout)
		if err != nil {
			return err
		}
		args = append(args, l.String())
	}
	_, err := w.server().run(ctx, args...)
	return err
}

// SetWindowOption sets a window option.
//
//	$ tmux set-window-option -t <window_id> <option> <value>
//
// Boolean values are sent as "on"/"off". If tmux writes to stderr the raw
// text is returned as a *CommandError.
func (w *Window) SetWindowOption(ctx context.Context, option string, value any) error {
	_, err := w.server().run(ctx, "set-window-option", "-t", w.ID(), option, FormatOptionValue(value))
	if err != nil {
		return fmt.Errorf("set-window-option %s: %w", option, err)
	}
	return nil
}

// ShowWindowOptions returns the options set on this window. With global,
// the global window options (-g) are returned instead.
//
// Values that are all digits come back as int.
func (w *Window) ShowWindowOptions(ctx context.Context, global bool) (Options, error) {
	args := []string{"show-window-options"}
	if global {
		args = append(args, "-g")
	} else {
		args = append(args, "-t", w.ID())
	}
	res, err := w.server().run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseOptions(res.Stdout), nil
}

// ShowWindowOption returns a single window option, or with global the
// global value (-g). The bool is false when tmux printed nothing, i.e. the
// option is not set.
func (w *Window) ShowWindowOption(ctx context.Context, option string, global bool) (any, bool, error) {
	args := []string{"show-window-options"}
	if global {
		args = append(args, "-g")
	} else {
		args = append(args, "-t", w.ID())
	}
	res, err := w.server().run(ctx, append(args, option)...)
	if err != nil {
		return nil, false, err
	}
	if len(res.Stdout) == 0 {
		return nil, false, nil
	}
	opts := ParseOptions(res.Stdout[:1])
	for _, v := range opts {
		return v, true, nil
	}
	return nil, false, nil
}

// RenameWindow renames the window.
//
//	$ tmux rename-window -t <target> <name>
//
// The snapshot's window_name is updated on success. Failures are logged as
// well as returned, since callers commonly ignore rename errors.
func (w *Window) RenameWindow(ctx context.Context, name string) error {
	if _, err := w.server().run(ctx, "rename-window", "-t", w.Target(), name); err != nil {
		w.server().log.WithError(err).WithField("window", w.ID()).Error("rename-window failed")
		return err
	}
	w.row["window_name"] = name
	return nil
}

// SelectPane makes a pane of this window active and returns it.
//
// target may be:
//   - a direction: "up", "down", "left", "right", "last" (or -U/-D/-L/-R/-l),
//     relative to the window's active pane;
//   - a pane index within this window ("1");
//   - any other tmux pane target ("%4", "dev:1.0"), passed through as-is.
func (w *Window) SelectPane(ctx context.Context, target string) (*Pane, error) {
	var args []string
	switch d, isDirection := model.ParseDirection(target); {
	case isDirection:
		args = []string{"select-pane", "-t", w.Target(), d.Flag()}
	case isDigits(target):
		args = []string{"select-pane", "-t", w.Target() + "." + target}
	default:
		args = []string{"select-pane", "-t", target}
	}

	if _, err := w.server().run(ctx, args...); err != nil {
		return nil, err
	}
	return w.AttachedPane(ctx)
}

// SplitOptions configures Window.SplitWindow and Pane.Split.
type SplitOptions struct {
	// Target is the pane to split. Empty means the window's first pane.
	Target string

	// Detach keeps the currently active pane active (-d). By default the
	// new pane becomes active.
	Detach bool

	// Horizontal splits side by side (-h). The default stacks the new pane
	// below the target (-v).
	Horizontal bool

	// StartDirectory is the new pane's working directory (-c).
	StartDirectory string

	// Size is the new pane's size in lines/columns or as a percentage
	// ("30%"), passed to -l.
	Size string

	// Command runs in the new pane instead of the default shell.
	Command string
}

// SplitWindow splits a pane of this window and returns the new pane,
// parsed from the -P output.
//
// tmux refuses the split with "pane too small" / "no space for new pane"
// when the target cannot be divided; that is reported as an error matching
// ErrPaneTooSmall.
func (w *Window) SplitWindow(ctx context.Context, opts SplitOptions) (*Pane, error) {
	target := opts.Target
	if target == "" {
		panes, err := w.ListPanes(ctx)
		if err != nil {
			return nil, err
		}
		if len(panes) > 0 {
			target = panes[0].ID()
		} else {
			target = w.Target()
		}
	}

	args := []string{"split-window", "-t", target, "-P", "-F", FormatString(paneListFormats)}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Horizontal {
		args = append(args, "-h")
	} else {
		args = append(args, "-v")
	}
	if opts.StartDirectory != "" {
		args = append(args, "-c", opts.StartDirectory)
	}
	if opts.Size != "" {
		args = append(args, "-l", opts.Size)
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}

	res, err := w.server().run(ctx, args...)
	if err != nil {
		return nil, err
	}
	rows := ParseRows(paneListFormats, res.Stdout)
	if len(rows) == 0 {
		return nil, fmt.Errorf("tmux split-window printed no pane")
	}
	return newPane(w, rows[0]), nil
}

// AttachedPane returns the window's active pane.
func (w *Window) AttachedPane(ctx context.Context) (*Pane, error) {
	panes, err := w.ListPanes(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range panes {
		if p.row.Bool("pane_active") {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no active pane in window %s", ErrPaneNotFound, w.ID())
}

// ListPanes returns the panes of this window, from a fresh server-wide
// pane listing filtered by session and window id.
func (w *Window) ListPanes(ctx context.Context) ([]*Pane, error) {
	rows, err := w.server().Panes(ctx)
	if err != nil {
		return nil, err
	}
	attrs := map[string]string{"window_id": w.ID()}
	if sid := w.row.Get("session_id"); sid != "" {
		attrs["session_id"] = sid
	}
	matched := Where(rows, attrs)
	panes := make([]*Pane, 0, len(matched))
	for _, r := range matched {
		panes = append(panes, newPane(w, r))
	}
	return panes, nil
}

// Select makes this window the current window of its session.
func (w *Window) Select(ctx context.Context) error {
	_, err := w.server().run(ctx, "select-window", "-t", w.Target())
	return err
}

// Kill kills the window and all of its panes.
func (w *Window) Kill(ctx context.Context) error {
	_, err := w.server().run(ctx, "kill-window", "-t", w.Target())
	return err
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}
