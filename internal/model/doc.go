// Package model defines the domain value types for the tmux-workspace CLI.
//
// This package contains pure data structures with no external dependencies.
// Sessions, windows and panes themselves are NOT modelled here: they are
// owned by the tmux server and mirrored by the tmux package as transient
// rows. What lives here are the small vocabularies the rest of the code
// validates against (layouts, pane directions, session names).
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
