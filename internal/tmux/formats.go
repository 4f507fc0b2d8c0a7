package tmux

import "strings"

// formatSeparator separates fields in -F format strings. A tab cannot
// appear in session or window names created through this package, and tmux
// passes it through untouched.
const formatSeparator = "\t"

// SessionFormats are the fields requested for every session row.
var SessionFormats = []string{
	"session_id",
	"session_name",
	"session_windows",
	"session_width",
	"session_height",
	"session_created",
	"session_attached",
	"session_grouped",
	"session_group",
	"session_path",
}

// WindowFormats are the fields requested for every window row. The owning
// session's id and name are included so that rows from `list-windows -a`
// can be attributed without a second query.
var WindowFormats = []string{
	"session_id",
	"session_name",
	"window_id",
	"window_index",
	"window_name",
	"window_width",
	"window_height",
	"window_layout",
	"window_panes",
	"window_flags",
	"window_active",
	"window_activity_flag",
	"window_bell_flag",
	"window_silence_flag",
	"window_zoomed_flag",
}

// PaneFormats are the pane-specific fields requested for every pane row.
var PaneFormats = []string{
	"pane_id",
	"pane_index",
	"pane_active",
	"pane_title",
	"pane_width",
	"pane_height",
	"pane_tty",
	"pane_pid",
	"pane_current_path",
	"pane_current_command",
	"pane_start_command",
	"pane_in_mode",
	"pane_dead",
	"pane_left",
	"pane_top",
	"history_size",
	"history_limit",
	"cursor_x",
	"cursor_y",
}

// paneListFormats prefixes PaneFormats with the owning session and window
// identity, matching what `split-window -P` and `list-panes -a` print.
var paneListFormats = append([]string{
	"session_id",
	"session_name",
	"window_id",
	"window_index",
}, PaneFormats...)

// FormatString builds a tmux -F format string requesting each field,
// separated by tabs: "#{a}\t#{b}\t#{c}".
func FormatString(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = "#{" + f + "}"
	}
	return strings.Join(parts, formatSeparator)
}

// ParseRows converts tab-separated output lines into rows keyed by field.
//
// Values are zipped positionally with fields. Fields with an empty value
// are omitted from the row, so "not set" and "absent" are the same thing to
// callers. Blank lines are skipped. Extra trailing values (from a tmux that
// prints more columns than requested) are ignored.
func ParseRows(fields []string, lines []string) []Row {
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, formatSeparator)
		row := make(Row, len(fields))
		for i, field := range fields {
			if i >= len(values) {
				break
			}
			if values[i] != "" {
				row[field] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
