package tmux

import (
	"context"
	"fmt"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// Session is a snapshot of one tmux session.
//
// The row is captured when the Session is created and is only updated by
// Refresh or by methods of this Session that change it (Rename). Other
// clients may change the session at any time.
type Session struct {
	server *Server
	row    Row
}

func newSession(server *Server, row Row) *Session {
	return &Session{server: server, row: row}
}

// ID returns the session id, e.g. "$1".
func (s *Session) ID() string { return s.row.Get("session_id") }

// Name returns the session name.
func (s *Session) Name() string { return s.row.Get("session_name") }

// Get returns a field from the snapshot row.
func (s *Session) Get(field string) string { return s.row.Get(field) }

// Row returns a copy of the snapshot row.
func (s *Session) Row() Row { return s.row.clone() }

// Server returns the server the session lives on.
func (s *Session) Server() *Server { return s.server }

// Target returns the -t target for this session. The id is used rather
// than the name because it survives renames.
func (s *Session) Target() string {
	if id := s.ID(); id != "" {
		return id
	}
	return "=" + s.Name()
}

func (s *Session) String() string {
	return fmt.Sprintf("Session(%s %s)", s.ID(), s.Name())
}

// Refresh re-reads the session row from the server.
func (s *Session) Refresh(ctx context.Context) error {
	rows, err := s.server.Sessions(ctx)
	if err != nil {
		return err
	}
	row, ok := FindWhere(rows, map[string]string{"session_id": s.ID()})
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID())
	}
	s.row = row
	return nil
}

// NewWindowOptions configures Session.NewWindow.
type NewWindowOptions struct {
	// Name is the window name (-n).
	Name string

	// StartDirectory is the working directory of the window's pane (-c).
	StartDirectory string

	// Index places the window at a specific index. Nil lets tmux pick the
	// next free index.
	Index *int

	// Detach keeps the current window active (-d).
	Detach bool

	// Command runs instead of the default shell.
	Command string
}

// NewWindow creates a window in this session.
func (s *Session) NewWindow(ctx context.Context, opts NewWindowOptions) (*Window, error) {
	target := s.Target() + ":"
	if opts.Index != nil {
		target = fmt.Sprintf("%s:%d", s.Target(), *opts.Index)
	}

	args := []string{"new-window", "-P", "-F", FormatString(WindowFormats), "-t", target}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Name != "" {
		args = append(args, "-n", opts.Name)
	}
	if opts.StartDirectory != "" {
		args = append(args, "-c", opts.StartDirectory)
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}

	res, err := s.server.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	rows := ParseRows(WindowFormats, res.Stdout)
	if len(rows) == 0 {
		return nil, fmt.Errorf("tmux new-window printed no window")
	}
	return newWindow(s, rows[0]), nil
}

// ListWindows returns the windows of this session in index order.
func (s *Session) ListWindows(ctx context.Context) ([]*Window, error) {
	rows, err := s.server.Windows(ctx)
	if err != nil {
		return nil, err
	}
	matched := Where(rows, map[string]string{"session_id": s.ID()})
	windows := make([]*Window, 0, len(matched))
	for _, r := range matched {
		windows = append(windows, newWindow(s, r))
	}
	return windows, nil
}

// AttachedWindow returns the session's active window.
func (s *Session) AttachedWindow(ctx context.Context) (*Window, error) {
	windows, err := s.ListWindows(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if w.row.Bool("window_active") {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: no active window in session %s", ErrWindowNotFound, s.Name())
}

// SelectWindow makes target (an index, name or @id) the active window and
// returns it.
func (s *Session) SelectWindow(ctx context.Context, target string) (*Window, error) {
	if _, err := s.server.run(ctx, "select-window", "-t", s.windowTarget(target)); err != nil {
		return nil, err
	}
	return s.AttachedWindow(ctx)
}

// KillWindow kills the window target (an index, name or @id).
func (s *Session) KillWindow(ctx context.Context, target string) error {
	_, err := s.server.run(ctx, "kill-window", "-t", s.windowTarget(target))
	return err
}

func (s *Session) windowTarget(target string) string {
	if len(target) > 0 && target[0] == '@' {
		return target
	}
	return s.Target() + ":" + target
}

// Rename renames the session.
func (s *Session) Rename(ctx context.Context, name string) error {
	if err := model.ValidateSessionName(name); err != nil {
		return err
	}
	if _, err := s.server.run(ctx, "rename-session", "-t", s.Target(), name); err != nil {
		return err
	}
	s.row["session_name"] = name
	return nil
}

// Kill kills the session.
func (s *Session) Kill(ctx context.Context) error {
	_, err := s.server.run(ctx, "kill-session", "-t", s.Target())
	return err
}

// SetOption sets a session option. Booleans become "on"/"off".
func (s *Session) SetOption(ctx context.Context, option string, value any) error {
	_, err := s.server.run(ctx, "set-option", "-t", s.Target(), option, FormatOptionValue(value))
	return err
}

// ShowOptions returns the options set on this session.
func (s *Session) ShowOptions(ctx context.Context) (Options, error) {
	res, err := s.server.run(ctx, "show-options", "-t", s.Target())
	if err != nil {
		return nil, err
	}
	return ParseOptions(res.Stdout), nil
}

// ShowOption returns a single session option. The bool is false when the
// option is not set on this session.
func (s *Session) ShowOption(ctx context.Context, option string) (any, bool, error) {
	res, err := s.server.run(ctx, "show-options", "-t", s.Target(), option)
	if err != nil {
		return nil, false, err
	}
	v, ok := ParseOptions(res.Stdout)[option]
	return v, ok, nil
}

// SetEnvironment sets a variable in the session environment.
func (s *Session) SetEnvironment(ctx context.Context, name, value string) error {
	_, err := s.server.run(ctx, "set-environment", "-t", s.Target(), name, value)
	return err
}
