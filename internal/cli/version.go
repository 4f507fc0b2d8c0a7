package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the "version" subcommand. Unlike --version it
// also reports the version of the tmux it would drive.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tmux-workspace and tmux versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.Context())
		},
	}
}

func runVersion(ctx context.Context) error {
	tmuxVersion := "not found"
	conn, err := connect(ctx)
	if err == nil {
		defer conn.Close()
		if v, err := conn.server.Version(ctx); err == nil {
			tmuxVersion = v
		} else {
			VerboseLog("tmux -V failed: %v", err)
		}
	} else {
		VerboseLog("Cannot reach tmux: %v", err)
	}

	if IsJSONOutput() {
		printJSON(map[string]string{
			"version": Version,
			"commit":  Commit,
			"date":    Date,
			"tmux":    tmuxVersion,
		})
		return nil
	}
	fmt.Printf("tmux-workspace %s (commit: %s, built: %s)\n", Version, Commit, Date)
	fmt.Printf("tmux %s\n", tmuxVersion)
	return nil
}
