package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/workspace"
)

// freezeFlags holds the flags of the "freeze" subcommand.
type freezeFlags struct {
	format string
	output string
	force  bool
}

// NewFreezeCommand creates the "freeze" subcommand.
func NewFreezeCommand() *cobra.Command {
	var flags freezeFlags

	cmd := &cobra.Command{
		Use:   "freeze <session>",
		Short: "Snapshot a running session into a workspace file",
		Long: `Write the windows, layouts, directories and running commands of a session
as a workspace file that "load" can rebuild.

Without --output the workspace is printed to stdout. The format defaults to
the output file's extension, or YAML.

Examples:
  tmux-workspace freeze dev
  tmux-workspace freeze dev -o ~/.config/tmux-workspace/dev.yaml
  tmux-workspace freeze dev --format toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreeze(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: yaml, json or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing output file")

	return cmd
}

func runFreeze(ctx context.Context, sessionRef string, flags freezeFlags) error {
	format, err := freezeFormat(flags.format, flags.output)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid format", err)
	}

	if flags.output != "" && !flags.force {
		if _, err := os.Stat(flags.output); err == nil {
			return model.NewCLIError(
				model.ExitGeneralError,
				fmt.Sprintf("%s already exists (use --force to overwrite)", flags.output),
			)
		}
	}

	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess, err := conn.server.ResolveSession(ctx, sessionRef)
	if err != nil {
		return err
	}
	cfg, err := workspace.Freeze(ctx, sess)
	if err != nil {
		return err
	}
	data, err := workspace.Marshal(cfg, format)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flags.output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.output, err)
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"session": sessionRef, "output": flags.output, "format": format})
		return nil
	}
	fmt.Printf("Saved session %s to %s\n", sess.Name(), flags.output)
	return nil
}

// freezeFormat picks the output format: the explicit flag wins, then the
// output file's extension when it is a known one, then YAML.
func freezeFormat(flag, output string) (workspace.Format, error) {
	if flag != "" {
		return workspace.ParseFormat(flag)
	}
	if output != "" {
		if format, err := workspace.FormatFromPath(output); err == nil {
			return format, nil
		}
	}
	return workspace.FormatYAML, nil
}
