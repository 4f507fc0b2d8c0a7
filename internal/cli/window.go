package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// Window-level commands. Every command that takes a <window> argument
// accepts "session", "session:index", "session:name" or "@id"; a session
// alone means its active window.

// NewWindowsCommand creates the "windows" subcommand.
func NewWindowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "windows [session]",
		Aliases: []string{"list-windows"},
		Short:   "List windows",
		Long: `List the windows of one session, or of every session when none is given.

Examples:
  tmux-workspace windows
  tmux-workspace windows dev --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runWindows(cmd.Context(), ref)
		},
	}
}

func runWindows(ctx context.Context, sessionRef string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var rows []tmux.Row
	if sessionRef == "" {
		rows, err = conn.server.Windows(ctx)
		if err != nil {
			return err
		}
	} else {
		sess, err := conn.server.ResolveSession(ctx, sessionRef)
		if err != nil {
			return err
		}
		windows, err := sess.ListWindows(ctx)
		if err != nil {
			return err
		}
		rows = rowsOf(windows)
	}

	if IsJSONOutput() {
		out := make([]windowJSON, 0, len(rows))
		for _, r := range rows {
			out = append(out, newWindowJSON(r))
		}
		printJSON(map[string]any{"windows": out})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No windows.")
		return nil
	}
	fmt.Println(renderTable(windowHeaders, windowTableRows(rows)))
	return nil
}

// NewPanesCommand creates the "panes" subcommand.
func NewPanesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "panes <window>",
		Aliases: []string{"list-panes"},
		Short:   "List the panes of a window",
		Long: `List the panes of a window with their size, command and working directory.

Examples:
  tmux-workspace panes dev
  tmux-workspace panes dev:editor --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanes(cmd.Context(), args[0])
		},
	}
}

func runPanes(ctx context.Context, target string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}
	panes, err := win.ListPanes(ctx)
	if err != nil {
		return err
	}
	rows := rowsOf(panes)

	if IsJSONOutput() {
		out := make([]paneJSON, 0, len(rows))
		for _, r := range rows {
			out = append(out, newPaneJSON(r))
		}
		printJSON(map[string]any{"window": win.ID(), "panes": out})
		return nil
	}
	fmt.Println(renderTable(paneHeaders, paneTableRows(rows)))
	return nil
}

// NewLayoutCommand creates the "layout" subcommand.
func NewLayoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <window> [layout]",
		Short: "Arrange the panes of a window",
		Long: `Apply a layout to a window. Presets are even-horizontal, even-vertical,
main-horizontal, main-vertical and tiled; a custom layout string (as printed
by "tmux list-windows -F '#{window_layout}'") is accepted too. Without a
layout the window's current layout is re-applied.

Examples:
  tmux-workspace layout dev:editor tiled
  tmux-workspace layout dev main-vertical`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := ""
			if len(args) == 2 {
				layout = args[1]
			}
			return runLayout(cmd.Context(), args[0], layout)
		},
	}
}

func runLayout(ctx context.Context, target, layout string) error {
	// Reject unknown presets before touching tmux.
	if layout != "" {
		if _, err := model.ParseLayout(layout); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid layout", err)
		}
	}

	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}
	if err := win.SelectLayout(ctx, layout); err != nil {
		return err
	}
	return printWindowResult(ctx, win, "Applied layout to")
}

// NewRenameWindowCommand creates the "rename-window" subcommand.
func NewRenameWindowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-window <window> <name>",
		Short: "Rename a window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenameWindow(cmd.Context(), args[0], args[1])
		},
	}
}

func runRenameWindow(ctx context.Context, target, name string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}
	if err := win.RenameWindow(ctx, name); err != nil {
		return err
	}
	return printWindowResult(ctx, win, "Renamed")
}

// printWindowResult reports a window after a mutating command.
func printWindowResult(ctx context.Context, win *tmux.Window, verb string) error {
	if err := win.Refresh(ctx); err != nil {
		return err
	}
	if IsJSONOutput() {
		printJSON(map[string]any{"window": newWindowJSON(win.Row())})
		return nil
	}
	fmt.Printf("%s window %s (%s:%s %s)\n", verb, win.ID(), win.Session().Name(), win.Index(), win.Name())
	return nil
}

// splitFlags holds the flags of the "split" subcommand.
type splitFlags struct {
	horizontal bool
	detach     bool
	directory  string
	size       string
}

// NewSplitCommand creates the "split" subcommand.
func NewSplitCommand() *cobra.Command {
	var flags splitFlags

	cmd := &cobra.Command{
		Use:     "split <window|pane> [command]",
		Aliases: []string{"split-window"},
		Short:   "Split a pane",
		Long: `Split a pane and print the new pane. The target is a window (its first
pane is split) or a pane id such as %4.

Examples:
  tmux-workspace split dev:editor
  tmux-workspace split %4 -H -l 30% 'tail -f app.log'
  tmux-workspace split dev -c ~/src/api -d`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := ""
			if len(args) == 2 {
				command = args[1]
			}
			return runSplit(cmd.Context(), args[0], command, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.horizontal, "horizontal", "H", false, "Split side by side instead of stacked")
	cmd.Flags().BoolVarP(&flags.detach, "detach", "d", false, "Keep the current pane active")
	cmd.Flags().StringVarP(&flags.directory, "start-directory", "c", "", "Working directory of the new pane")
	cmd.Flags().StringVarP(&flags.size, "size", "l", "", "Size of the new pane in cells or percent (30%)")

	return cmd
}

func runSplit(ctx context.Context, target, command string, flags splitFlags) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	opts := tmux.SplitOptions{
		Detach:         flags.detach,
		Horizontal:     flags.horizontal,
		StartDirectory: flags.directory,
		Size:           flags.size,
		Command:        command,
	}

	var pane *tmux.Pane
	if strings.HasPrefix(target, "%") {
		src, err := conn.server.ResolvePane(ctx, target)
		if err != nil {
			return err
		}
		VerboseLog("Splitting pane %s", src.ID())
		pane, err = src.Split(ctx, opts)
		if err != nil {
			return err
		}
	} else {
		win, err := conn.server.ResolveWindow(ctx, target)
		if err != nil {
			return err
		}
		VerboseLog("Splitting window %s", win.ID())
		pane, err = win.SplitWindow(ctx, opts)
		if err != nil {
			return err
		}
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"pane": newPaneJSON(pane.Row())})
		return nil
	}
	fmt.Println(pane.ID())
	return nil
}

// NewSelectPaneCommand creates the "select-pane" subcommand.
func NewSelectPaneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select-pane <window> <pane>",
		Short: "Make a pane active",
		Long: `Make a pane of a window active. <pane> is a direction (up, down, left,
right, last), a pane index within the window, or a pane id.

Examples:
  tmux-workspace select-pane dev:editor 1
  tmux-workspace select-pane dev left
  tmux-workspace select-pane dev %7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelectPane(cmd.Context(), args[0], args[1])
		},
	}
}

func runSelectPane(ctx context.Context, target, paneRef string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}
	pane, err := win.SelectPane(ctx, paneRef)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"pane": newPaneJSON(pane.Row())})
		return nil
	}
	fmt.Printf("Selected pane %s (index %s)\n", pane.ID(), pane.Index())
	return nil
}

// NewWindowOptionsCommand creates the "window-options" subcommand.
func NewWindowOptionsCommand() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:     "window-options <window> [option]",
		Aliases: []string{"show-window-options"},
		Short:   "Show window options",
		Long: `Show the options set on a window, or a single option.

Examples:
  tmux-workspace window-options dev:editor
  tmux-workspace window-options dev:editor automatic-rename
  tmux-workspace window-options dev -g
  tmux-workspace window-options dev mode-keys -g`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			option := ""
			if len(args) == 2 {
				option = args[1]
			}
			return runWindowOptions(cmd.Context(), args[0], option, global)
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Show global window options")
	return cmd
}

func runWindowOptions(ctx context.Context, target, option string, global bool) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}

	var opts tmux.Options
	if option != "" {
		value, ok, err := win.ShowWindowOption(ctx, option, global)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewCLIError(model.ExitNotFound, optionNotSetMessage(option, win.ID(), global))
		}
		opts = tmux.Options{option: value}
	} else {
		opts, err = win.ShowWindowOptions(ctx, global)
		if err != nil {
			return err
		}
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"options": opts})
		return nil
	}
	if len(opts) == 0 {
		fmt.Println("No options set.")
		return nil
	}
	fmt.Println(renderTable([]string{"OPTION", "VALUE"}, optionTableRows(opts)))
	return nil
}

func optionNotSetMessage(option, windowID string, global bool) string {
	if global {
		return fmt.Sprintf("global window option %q is not set", option)
	}
	return fmt.Sprintf("option %q is not set on window %s", option, windowID)
}

// NewSetWindowOptionCommand creates the "set-window-option" subcommand.
func NewSetWindowOptionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set-window-option <window> <option> <value>",
		Aliases: []string{"setw"},
		Short:   "Set a window option",
		Long: `Set an option on a window. Boolean-like values (true/false, on/off) are
sent to tmux as on/off.

Examples:
  tmux-workspace set-window-option dev:editor automatic-rename off
  tmux-workspace setw dev main-pane-width 120`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetWindowOption(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func runSetWindowOption(ctx context.Context, target, option, value string) error {
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := conn.server.ResolveWindow(ctx, target)
	if err != nil {
		return err
	}
	if err := win.SetWindowOption(ctx, option, parseOptionArg(value)); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]any{"window": win.ID(), "option": option, "value": value})
		return nil
	}
	fmt.Printf("Set %s on window %s\n", option, win.ID())
	return nil
}

// parseOptionArg converts boolean-like command-line values to bool so they
// are sent as on/off. Everything else passes through as a string.
func parseOptionArg(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}
