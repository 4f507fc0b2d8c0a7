package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// NewLsCommand creates the "ls" subcommand, which lists sessions.
func NewLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list-sessions"},
		Short:   "List tmux sessions",
		Long: `List the sessions of the tmux server.

No running server is not an error: the list is simply empty.

Examples:
  tmux-workspace ls
  tmux-workspace ls --json
  tmux-workspace -L work ls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(cmd.Context())
		},
	}
}

func runLs(ctx context.Context) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rows, err := conn.server.Sessions(ctx)
	if err != nil {
		return err
	}
	VerboseLog("Found %d session(s)", len(rows))

	if IsJSONOutput() {
		out := make([]sessionJSON, 0, len(rows))
		for _, r := range rows {
			out = append(out, newSessionJSON(r))
		}
		printJSON(map[string]any{"sessions": out})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No sessions.")
		return nil
	}
	fmt.Println(renderTable(sessionHeaders, sessionTableRows(rows)))
	return nil
}

// NewKillSessionCommand creates the "kill-session" subcommand.
func NewKillSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kill-session <session>",
		Short: "Kill a tmux session",
		Long: `Kill a session by name or $id.

Examples:
  tmux-workspace kill-session dev
  tmux-workspace kill-session '$3'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKillSession(cmd.Context(), args[0])
		},
	}
}

func runKillSession(ctx context.Context, ref string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess, err := conn.server.ResolveSession(ctx, ref)
	if err != nil {
		return err
	}
	if err := sess.Kill(ctx); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"killed": sessionRef(sess)})
		return nil
	}
	fmt.Printf("Killed session %s\n", sess.Name())
	return nil
}

func sessionRef(sess *tmux.Session) map[string]string {
	return map[string]string{"id": sess.ID(), "name": sess.Name()}
}
