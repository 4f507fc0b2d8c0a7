// Package main is the entry point for the tmux-workspace CLI.
//
// The binary lists and manipulates tmux sessions, windows and panes, and
// builds sessions from workspace files. Everything lives in internal/cli;
// main only injects build information and runs the root command.
package main

import (
	"github.com/shinji-kodama/tmux-workspace/internal/cli"
)

// Set at build time with
// -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
