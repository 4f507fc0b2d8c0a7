package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/workspace"
)

// NewValidateCommand creates the "validate" subcommand, which checks a
// workspace file without touching tmux.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [workspace]",
		Short: "Check a workspace file",
		Long: `Parse and validate a workspace file without creating anything. Every
problem found is reported, not just the first.

Examples:
  tmux-workspace validate
  tmux-workspace validate ./dev.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runValidate(name)
		},
	}
}

func runValidate(name string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	path, err := workspace.Find(name, cwd)
	if err != nil {
		return err
	}
	cfg, err := workspace.Load(path)
	if err != nil {
		return err
	}

	problems := validationProblems(workspace.Validate(cfg))

	if IsJSONOutput() {
		printJSON(map[string]any{
			"workspace": path,
			"session":   cfg.SessionName,
			"valid":     len(problems) == 0,
			"problems":  problems,
		})
	} else if len(problems) == 0 {
		fmt.Printf("%s: OK (session %s, %d window(s))\n", path, cfg.SessionName, len(cfg.Windows))
	} else {
		fmt.Printf("%s:\n", path)
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
	}

	if len(problems) > 0 {
		return model.NewCLIError(
			model.ExitWorkspaceInvalid,
			fmt.Sprintf("workspace %s has %d problem(s)", path, len(problems)),
		)
	}
	return nil
}

// validationProblems flattens a joined validation error into one message
// per problem.
func validationProblems(err error) []string {
	if err == nil {
		return []string{}
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, validationProblems(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// NewSchemaCommand creates the "schema" subcommand.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of workspace files",
		Long: `Print a JSON Schema describing workspace files, for editor completion and
validation.

Examples:
  tmux-workspace schema > tmux-workspace.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := workspace.Schema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
