// Package cli implements the cobra-based CLI commands for tmux-workspace.
//
// Commands are grouped by the tmux object they act on: session.go (ls,
// kill-session), window.go (windows, panes, layout, rename-window, split,
// select-pane, window-options, set-window-option) and one file each for the
// workspace commands (load, freeze, validate/schema) and version. This file
// defines the root command, the global flags and the shared plumbing that
// turns those flags into a tmux.Server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/tmux-workspace/internal/docker"
	"github.com/shinji-kodama/tmux-workspace/internal/model"
	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// Global flag variables, bound to persistent flags on the root command so
// every subcommand sees them.
var (
	// jsonOutput switches command output to indented JSON.
	jsonOutput bool

	// verbose lowers the log level to debug, which traces every tmux argv.
	verbose bool

	// socketName, socketPath and configFile select the tmux server
	// (tmux -L, -S, -f).
	socketName string
	socketPath string
	configFile string

	// tmuxBinary overrides the tmux executable.
	tmuxBinary string

	// containerRef runs tmux inside this Docker container instead of
	// locally; containerUser is the user the exec runs as.
	containerRef  string
	containerUser string
)

// logger is the process-wide logger. It writes to stderr so stdout stays
// clean for command output.
var logger = newLogger()

// Build information, injected from main via ldflags.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// NewRootCommand creates the root cobra command with every subcommand
// registered. The root command itself only carries help text and the
// global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tmux-workspace",
		Short: "Script tmux sessions, windows and panes",
		Long: `tmux-workspace drives a tmux server from the command line.

It lists and manipulates sessions, windows and panes, and builds whole
sessions from declarative workspace files (YAML, JSON or TOML). With
--container, the same commands run against a tmux server inside a Docker
container.`,

		// Errors are printed by Execute, in text or JSON.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every tmux command to stderr")
	flags.StringVarP(&socketName, "socket-name", "L", "", "tmux socket name (tmux -L)")
	flags.StringVarP(&socketPath, "socket-path", "S", "", "tmux socket path (tmux -S)")
	flags.StringVarP(&configFile, "config", "f", "", "tmux configuration file (tmux -f)")
	flags.StringVar(&tmuxBinary, "tmux", "", "tmux executable (default: tmux on PATH)")
	flags.StringVar(&containerRef, "container", "", "Run tmux inside this Docker container (name or ID)")
	flags.StringVar(&containerUser, "container-user", "", "User to run tmux as inside the container")

	rootCmd.AddCommand(NewLsCommand())
	rootCmd.AddCommand(NewKillSessionCommand())
	rootCmd.AddCommand(NewWindowsCommand())
	rootCmd.AddCommand(NewPanesCommand())
	rootCmd.AddCommand(NewLayoutCommand())
	rootCmd.AddCommand(NewRenameWindowCommand())
	rootCmd.AddCommand(NewSplitCommand())
	rootCmd.AddCommand(NewSelectPaneCommand())
	rootCmd.AddCommand(NewWindowOptionsCommand())
	rootCmd.AddCommand(NewSetWindowOptionCommand())
	rootCmd.AddCommand(NewLoadCommand())
	rootCmd.AddCommand(NewFreezeCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// error. Errors that are not already CLIErrors are classified by
// classifyError.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyError(err)
		printError(cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}
}

// classifyError maps an error to a CLIError with the matching exit code.
func classifyError(err error) *model.CLIError {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var cmdErr *tmux.CommandError
	switch {
	case errors.Is(err, tmux.ErrTmuxNotFound):
		return model.WrapCLIError(model.ExitTmuxNotFound, "tmux is not installed", err)
	case errors.Is(err, tmux.ErrNoServer):
		return model.WrapCLIError(model.ExitNotFound, "no tmux server is running", err)
	case errors.Is(err, tmux.ErrSessionNotFound),
		errors.Is(err, tmux.ErrWindowNotFound),
		errors.Is(err, tmux.ErrPaneNotFound):
		return model.WrapCLIError(model.ExitNotFound, "not found", err)
	case errors.As(err, &cmdErr):
		return model.WrapCLIError(model.ExitTmuxError, "tmux command failed", err)
	default:
		return model.NewCLIError(model.ExitGeneralError, err.Error())
	}
}

// printError writes an error to stderr in the format chosen by --json.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]any{
			"error": map[string]any{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]any); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog logs a debug message, shown only with --verbose.
func VerboseLog(format string, args ...any) {
	logger.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

// connection is a tmux server handle plus whatever must be released when
// the command finishes.
type connection struct {
	server *tmux.Server

	// binary is the tmux executable, local or inside the container.
	binary string

	// container is set when tmux runs inside a Docker container.
	container *model.ContainerInfo

	closers []func() error
}

func (c *connection) Close() {
	for _, closeFn := range c.closers {
		_ = closeFn()
	}
}

// connect builds the tmux.Server selected by the global flags. With
// --container it connects to Docker and runs tmux through the exec API;
// otherwise it runs the local binary.
func connect(ctx context.Context) (*connection, error) {
	conn := &connection{binary: tmuxBinary}
	if conn.binary == "" {
		conn.binary = tmux.DefaultBinary
	}

	var runner tmux.Runner
	if containerRef != "" {
		cli, err := docker.NewClient()
		if err != nil {
			return nil, err
		}
		conn.closers = append(conn.closers, cli.Close)

		if err := cli.Ping(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		execRunner, err := docker.NewExecRunner(ctx, cli, containerRef, containerUser)
		if err != nil {
			conn.Close()
			return nil, err
		}
		execRunner.Binary = conn.binary
		runner = execRunner

		info := execRunner.Container()
		conn.container = &info
		VerboseLog("Running tmux in container %s", containerRef)
	} else {
		execRunner, err := tmux.NewExecRunner(conn.binary)
		if err != nil {
			return nil, err
		}
		runner = execRunner
	}

	conn.server = tmux.NewServer(runner, serverOptions()...)
	return conn, nil
}

// serverOptions converts the global flags into tmux.Server options.
func serverOptions() []tmux.Option {
	opts := []tmux.Option{tmux.WithLogger(logrus.NewEntry(logger))}
	if socketName != "" {
		opts = append(opts, tmux.WithSocketName(socketName))
	}
	if socketPath != "" {
		opts = append(opts, tmux.WithSocketPath(socketPath))
	}
	if configFile != "" {
		opts = append(opts, tmux.WithConfigFile(configFile))
	}
	return opts
}
