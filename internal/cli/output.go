package cli

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderTable lays out rows under headers as a bordered table.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// sessionJSON is the JSON shape of one session in `ls --json`.
type sessionJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Windows  int    `json:"windows"`
	Attached bool   `json:"attached"`
	Created  string `json:"created,omitempty"`
	Path     string `json:"path,omitempty"`
}

func newSessionJSON(r tmux.Row) sessionJSON {
	windows, _ := r.Int("session_windows")
	clients, _ := r.Int("session_attached")
	return sessionJSON{
		ID:       r.Get("session_id"),
		Name:     r.Get("session_name"),
		Windows:  windows,
		Attached: clients > 0,
		Created:  formatUnixTime(r.Get("session_created")),
		Path:     r.Get("session_path"),
	}
}

var sessionHeaders = []string{"ID", "NAME", "WINDOWS", "ATTACHED", "CREATED"}

func sessionTableRows(rows []tmux.Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		s := newSessionJSON(r)
		out = append(out, []string{
			s.ID,
			s.Name,
			strconv.Itoa(s.Windows),
			yesNo(s.Attached),
			s.Created,
		})
	}
	return out
}

// windowJSON is the JSON shape of one window in `windows --json`.
type windowJSON struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Index   string `json:"index"`
	Name    string `json:"name"`
	Panes   int    `json:"panes"`
	Active  bool   `json:"active"`
	Layout  string `json:"layout,omitempty"`
	Size    string `json:"size,omitempty"`
}

func newWindowJSON(r tmux.Row) windowJSON {
	panes, _ := r.Int("window_panes")
	return windowJSON{
		Session: r.Get("session_name"),
		ID:      r.Get("window_id"),
		Index:   r.Get("window_index"),
		Name:    r.Get("window_name"),
		Panes:   panes,
		Active:  r.Bool("window_active"),
		Layout:  r.Get("window_layout"),
		Size:    formatSize(r.Get("window_width"), r.Get("window_height")),
	}
}

var windowHeaders = []string{"SESSION", "INDEX", "ID", "NAME", "PANES", "SIZE", "ACTIVE"}

func windowTableRows(rows []tmux.Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		w := newWindowJSON(r)
		out = append(out, []string{
			w.Session,
			w.Index,
			w.ID,
			w.Name,
			strconv.Itoa(w.Panes),
			w.Size,
			activeMark(w.Active),
		})
	}
	return out
}

// paneJSON is the JSON shape of one pane in `panes --json`.
type paneJSON struct {
	ID      string `json:"id"`
	Index   string `json:"index"`
	Active  bool   `json:"active"`
	Size    string `json:"size,omitempty"`
	Path    string `json:"path,omitempty"`
	Command string `json:"command,omitempty"`
	PID     string `json:"pid,omitempty"`
}

func newPaneJSON(r tmux.Row) paneJSON {
	return paneJSON{
		ID:      r.Get("pane_id"),
		Index:   r.Get("pane_index"),
		Active:  r.Bool("pane_active"),
		Size:    formatSize(r.Get("pane_width"), r.Get("pane_height")),
		Path:    r.Get("pane_current_path"),
		Command: r.Get("pane_current_command"),
		PID:     r.Get("pane_pid"),
	}
}

var paneHeaders = []string{"INDEX", "ID", "SIZE", "COMMAND", "PATH", "ACTIVE"}

func paneTableRows(rows []tmux.Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		p := newPaneJSON(r)
		out = append(out, []string{
			p.Index,
			p.ID,
			p.Size,
			p.Command,
			p.Path,
			activeMark(p.Active),
		})
	}
	return out
}

// optionTableRows turns an option map into sorted NAME/VALUE rows.
func optionTableRows(opts tmux.Options) [][]string {
	out := make([][]string, 0, len(opts))
	for _, name := range slices.Sorted(maps.Keys(opts)) {
		out = append(out, []string{name, opts.Text(name)})
	}
	return out
}

// formatUnixTime renders a tmux epoch-seconds field as local time. Values
// that don't parse are returned as-is.
func formatUnixTime(s string) string {
	if s == "" {
		return ""
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return time.Unix(sec, 0).Format("2006-01-02 15:04")
}

func formatSize(width, height string) string {
	if width == "" || height == "" {
		return ""
	}
	return width + "x" + height
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func activeMark(b bool) string {
	if b {
		return "*"
	}
	return ""
}

// rowsOf collects the rows behind a list of tmux objects.
func rowsOf[T interface{ Row() tmux.Row }](items []T) []tmux.Row {
	rows := make([]tmux.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Row())
	}
	return rows
}
