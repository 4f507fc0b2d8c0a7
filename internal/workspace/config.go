package workspace

// Config is a normalized workspace: one tmux session.
//
// After Expand, every window has at least one pane, every shell command
// field is a list, and every start directory is absolute (or empty, meaning
// tmux's default).
type Config struct {
	// SessionName is the name of the session to create.
	SessionName string `yaml:"session_name" json:"session_name" toml:"session_name" jsonschema:"required"`

	// StartDirectory is the default working directory for every window.
	// Relative paths are resolved against the workspace file's directory.
	StartDirectory string `yaml:"start_directory,omitempty" json:"start_directory,omitempty" toml:"start_directory,omitempty"`

	// Options are session options (set-option -t <session>).
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`

	// GlobalOptions are server-wide session options (set-option -g).
	GlobalOptions map[string]any `yaml:"global_options,omitempty" json:"global_options,omitempty" toml:"global_options,omitempty"`

	// Environment is set in the session environment before any pane runs
	// its commands.
	Environment map[string]string `yaml:"environment,omitempty" json:"environment,omitempty" toml:"environment,omitempty"`

	// ShellCommandBefore runs in every pane of every window, before the
	// window's and pane's own commands.
	ShellCommandBefore []string `yaml:"shell_command_before,omitempty" json:"shell_command_before,omitempty" toml:"shell_command_before,omitempty"`

	// Windows are created in order. The first one reuses the window tmux
	// creates together with the session.
	Windows []WindowConfig `yaml:"windows" json:"windows" toml:"windows" jsonschema:"required,minItems=1"`
}

// WindowConfig describes one window.
type WindowConfig struct {
	WindowName string `yaml:"window_name" json:"window_name" toml:"window_name" jsonschema:"required"`

	// StartDirectory overrides the session start directory. Relative paths
	// are resolved against it.
	StartDirectory string `yaml:"start_directory,omitempty" json:"start_directory,omitempty" toml:"start_directory,omitempty"`

	// Layout is a preset name or a custom layout string, applied after
	// every split and once more when all panes exist.
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty" toml:"layout,omitempty"`

	// Focus makes this the active window once the build finishes.
	Focus bool `yaml:"focus,omitempty" json:"focus,omitempty" toml:"focus,omitempty"`

	// Options are window options (set-window-option).
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`

	ShellCommandBefore []string `yaml:"shell_command_before,omitempty" json:"shell_command_before,omitempty" toml:"shell_command_before,omitempty"`

	Panes []PaneConfig `yaml:"panes,omitempty" json:"panes,omitempty" toml:"panes,omitempty"`
}

// PaneConfig describes one pane.
type PaneConfig struct {
	// ShellCommand lists the commands typed into the pane, each followed
	// by Enter.
	ShellCommand []string `yaml:"shell_command,omitempty" json:"shell_command,omitempty" toml:"shell_command,omitempty"`

	StartDirectory string `yaml:"start_directory,omitempty" json:"start_directory,omitempty" toml:"start_directory,omitempty"`

	// Focus makes this the active pane of its window.
	Focus bool `yaml:"focus,omitempty" json:"focus,omitempty" toml:"focus,omitempty"`
}

// commands returns the full command list typed into a pane: the session's
// shell_command_before, then the window's, then the pane's own.
func (c *Config) commands(w *WindowConfig, p *PaneConfig) []string {
	cmds := make([]string, 0, len(c.ShellCommandBefore)+len(w.ShellCommandBefore)+len(p.ShellCommand))
	cmds = append(cmds, c.ShellCommandBefore...)
	cmds = append(cmds, w.ShellCommandBefore...)
	cmds = append(cmds, p.ShellCommand...)
	return cmds
}
