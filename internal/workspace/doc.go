// Package workspace loads declarative tmux workspace files and builds them
// on a tmux server.
//
// A workspace file describes one session: its windows, each window's panes,
// layouts, options, environment and the shell commands to type into every
// pane. Files may be written in YAML, JSON (comments allowed) or TOML; all
// three decode into the same format-agnostic map, which Expand normalizes
// into a Config.
//
// The reverse direction is Freeze, which snapshots a running session into a
// Config that Marshal can write back out in any of the three formats.
package workspace
