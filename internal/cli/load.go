package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
	"github.com/shinji-kodama/tmux-workspace/internal/workspace"
)

// loadFlags holds the flags of the "load" subcommand.
type loadFlags struct {
	killExisting bool
	detached     bool
	sessionName  string
}

// NewLoadCommand creates the "load" subcommand.
func NewLoadCommand() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load [workspace]",
		Short: "Build a tmux session from a workspace file",
		Long: `Build a session from a workspace file and attach to it.

The workspace argument may be a file, a directory containing a
.tmux-workspace.{yaml,yml,json,toml} file, or the name of a workspace in
$XDG_CONFIG_HOME/tmux-workspace. Without an argument the current directory
is searched.

Inside tmux the current client is switched to the new session instead of
attaching a nested client. If building fails partway, the partially built
session is killed so that the next load starts clean.

Examples:
  tmux-workspace load
  tmux-workspace load api
  tmux-workspace load ./dev.yaml -d
  tmux-workspace load api --kill-existing
  tmux-workspace --container dev-app-1 load api`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runLoad(cmd.Context(), name, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.killExisting, "kill-existing", "k", false, "Replace a running session of the same name")
	cmd.Flags().BoolVarP(&flags.detached, "detached", "d", false, "Build the session without attaching")
	cmd.Flags().StringVarP(&flags.sessionName, "session-name", "s", "", "Override the session name from the file")

	return cmd
}

func runLoad(ctx context.Context, name string, flags loadFlags) error {
	// Step 1: Locate and parse the workspace file.
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	path, err := workspace.Find(name, cwd)
	if err != nil {
		return err
	}
	VerboseLog("Loading workspace %s", path)

	cfg, err := workspace.Load(path)
	if err != nil {
		return err
	}
	if flags.sessionName != "" {
		cfg.SessionName = flags.sessionName
	}

	// Step 2: Validate before creating anything.
	if err := workspace.Validate(cfg); err != nil {
		return model.WrapCLIError(model.ExitWorkspaceInvalid, fmt.Sprintf("invalid workspace %s", path), err)
	}

	// Step 3: Build the session.
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	builder := workspace.NewBuilder(conn.server, logger.WithField("workspace", path))
	sess, err := builder.Build(ctx, cfg, workspace.BuildOptions{KillExisting: flags.killExisting})
	if err != nil {
		return discardPartial(ctx, sess, err)
	}

	if IsJSONOutput() {
		printJSON(map[string]any{
			"session":   sessionRef(sess),
			"workspace": path,
			"windows":   len(cfg.Windows),
		})
	} else {
		fmt.Printf("Session %s created from %s\n", sess.Name(), path)
	}

	// Step 4: Attach, unless asked not to.
	if flags.detached || IsJSONOutput() {
		return nil
	}
	return attach(ctx, conn, sess.Name())
}

// discardPartial kills the session a failed build left behind and returns
// the build error. sess is nil when the session was never created.
func discardPartial(ctx context.Context, sess *tmux.Session, buildErr error) error {
	if sess == nil {
		return buildErr
	}
	if err := sess.Kill(ctx); err != nil {
		logger.WithError(err).WithField("session", sess.Name()).Warn("could not remove partially built session")
	} else {
		VerboseLog("Removed partially built session %s", sess.Name())
	}
	return buildErr
}

// attach puts the user's terminal on the session. Inside tmux the current
// client is switched; otherwise a new client takes over stdio.
func attach(ctx context.Context, conn *connection, target string) error {
	if tmux.InTmux() && conn.container == nil {
		return conn.server.SwitchClient(ctx, target)
	}

	containerID, user := "", ""
	if conn.container != nil {
		containerID, user = conn.container.ContainerID, containerUser
	}
	argv := attachArgv(conn.binary, containerID, user, conn.server.AttachArgs(target))
	VerboseLog("Attaching: %v", argv)

	// #nosec G204: argv is assembled from flags and tmux targets, not a shell string
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("attach to %s: %w", target, err)
	}
	return nil
}

// attachArgv returns the command line that attaches a terminal. With a
// container, the attach runs through an interactive docker exec because the
// Engine API exec used for other commands has no TTY.
func attachArgv(binary, containerID, user string, tmuxArgs []string) []string {
	if containerID == "" {
		return append([]string{binary}, tmuxArgs...)
	}
	argv := []string{"docker", "exec", "-it"}
	if user != "" {
		argv = append(argv, "-u", user)
	}
	argv = append(argv, containerID, binary)
	return append(argv, tmuxArgs...)
}
