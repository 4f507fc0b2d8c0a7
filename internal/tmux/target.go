package tmux

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Target is a parsed tmux target of the form session:window.pane. Any part
// may be empty. Window and pane ids ("@3", "%5") are unique server-wide and
// are returned without a session.
type Target struct {
	Session string
	Window  string
	Pane    string
}

// ParseTarget splits a user-supplied target string.
//
//	"%5"           → Pane "%5"
//	"@3"           → Window "@3"
//	"dev"          → Session "dev"
//	"dev:"         → Session "dev"
//	"dev:2"        → Session "dev", Window "2"
//	"dev:editor.1" → Session "dev", Window "editor", Pane "1"
//	"dev:v1.2"     → Session "dev", Window "v1", Pane "2"
//
// Parsing is purely syntactic: a ".suffix" is split off as a pane when it
// is numeric or a pane id. Since window names may contain dots, the
// Resolve methods also try the unsplit text as a window name.
func ParseTarget(s string) Target {
	switch {
	case strings.HasPrefix(s, "%"):
		return Target{Pane: s}
	case strings.HasPrefix(s, "@"):
		return Target{Window: s}
	}

	session, rest, hasWindow := strings.Cut(s, ":")
	t := Target{Session: session}
	if !hasWindow {
		return t
	}

	if i := strings.LastIndex(rest, "."); i >= 0 {
		if suffix := rest[i+1:]; isDigits(suffix) || strings.HasPrefix(suffix, "%") {
			t.Pane = suffix
			rest = rest[:i]
		}
	}
	t.Window = rest
	return t
}

// dottedWindow returns t with its index pane folded back into the window
// name ("v1" + "2" → "v1.2"). ok is false when there is nothing to fold.
func (t Target) dottedWindow() (Target, bool) {
	if t.Pane == "" || t.Window == "" || strings.HasPrefix(t.Pane, "%") {
		return t, false
	}
	return Target{Session: t.Session, Window: t.Window + "." + t.Pane}, true
}

// ResolveWindow resolves target to a window using a fresh window listing.
// With no window part, the session's active window is returned. Windows
// are matched by @id, then index, then name. A pane suffix is ignored,
// unless the text only matches as a whole: "dev:v1.2" resolves to a window
// named "v1.2" when there is no window "v1".
func (s *Server) ResolveWindow(ctx context.Context, target string) (*Window, error) {
	t := ParseTarget(target)
	if t.Window == "" && t.Session == "" {
		return nil, fmt.Errorf("%w: empty target %q", ErrWindowNotFound, target)
	}

	rows, err := s.Windows(ctx)
	if err != nil {
		return nil, err
	}

	row, err := findWindow(rows, t)
	if errors.Is(err, ErrWindowNotFound) {
		if whole, ok := t.dottedWindow(); ok {
			row, err = findWindow(rows, whole)
		}
	}
	if err != nil {
		return nil, err
	}
	return newWindow(sessionFromRow(s, row), row), nil
}

// findWindow picks the window row named by t.Window within t.Session.
func findWindow(rows []Row, t Target) (Row, error) {
	if strings.HasPrefix(t.Window, "@") {
		if row, ok := FindWhere(rows, map[string]string{"window_id": t.Window}); ok {
			return row, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, t.Window)
	}

	candidates := rows
	if t.Session != "" {
		key := "session_name"
		if strings.HasPrefix(t.Session, "$") {
			key = "session_id"
		}
		candidates = Where(rows, map[string]string{key: t.Session})
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, t.Session)
		}
	}

	var row Row
	var ok bool
	switch {
	case t.Window == "":
		row, ok = FindWhere(candidates, map[string]string{"window_active": "1"})
	case isDigits(t.Window):
		row, ok = FindWhere(candidates, map[string]string{"window_index": t.Window})
	}
	if !ok && t.Window != "" {
		row, ok = FindWhere(candidates, map[string]string{"window_name": t.Window})
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrWindowNotFound, t.Session, t.Window)
	}
	return row, nil
}

// ResolvePane resolves target to a pane. A bare "%id" is looked up
// directly; otherwise the window is resolved first and the pane is chosen
// by index, defaulting to the window's active pane. A window whose whole
// name matches ("dev:v1.2" with a window "v1.2") wins over splitting off
// a pane index.
func (s *Server) ResolvePane(ctx context.Context, target string) (*Pane, error) {
	t := ParseTarget(target)

	if strings.HasPrefix(t.Pane, "%") && t.Window == "" {
		rows, err := s.Panes(ctx)
		if err != nil {
			return nil, err
		}
		row, ok := FindWhere(rows, map[string]string{"pane_id": t.Pane})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPaneNotFound, t.Pane)
		}
		w := newWindow(sessionFromRow(s, row), Row{
			"session_id":   row.Get("session_id"),
			"session_name": row.Get("session_name"),
			"window_id":    row.Get("window_id"),
			"window_index": row.Get("window_index"),
		})
		return newPane(w, row), nil
	}
	if t.Window == "" && t.Session == "" {
		return nil, fmt.Errorf("%w: empty target %q", ErrPaneNotFound, target)
	}

	rows, err := s.Windows(ctx)
	if err != nil {
		return nil, err
	}

	if whole, ok := t.dottedWindow(); ok {
		if row, err := findWindow(rows, whole); err == nil {
			return newWindow(sessionFromRow(s, row), row).AttachedPane(ctx)
		}
	}

	row, err := findWindow(rows, Target{Session: t.Session, Window: t.Window})
	if err != nil {
		return nil, err
	}
	w := newWindow(sessionFromRow(s, row), row)
	if t.Pane == "" {
		return w.AttachedPane(ctx)
	}

	panes, err := w.ListPanes(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range panes {
		if p.Index() == t.Pane || p.ID() == t.Pane {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPaneNotFound, target)
}

// sessionFromRow builds a partial Session from the session fields carried
// by a window or pane row. Call Refresh to load the full session row.
func sessionFromRow(s *Server, row Row) *Session {
	r := Row{}
	if v := row.Get("session_id"); v != "" {
		r["session_id"] = v
	}
	if v := row.Get("session_name"); v != "" {
		r["session_name"] = v
	}
	return newSession(s, r)
}
