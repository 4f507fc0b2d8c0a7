package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

const yamlWorkspace = `
session_name: dev
start_directory: ./app
options:
  base-index: 1
windows:
  - window_name: editor
    layout: main-vertical
    focus: true
    panes:
      - vim
      - shell_command: [make watch]
  - window_name: logs
    panes:
      - null
`

const jsonWorkspace = `{
  // comments are allowed
  "session_name": "dev",
  "start_directory": "./app",
  "options": {"base-index": 1},
  "windows": [
    {
      "window_name": "editor",
      "layout": "main-vertical",
      "focus": true,
      "panes": ["vim", {"shell_command": ["make watch"]}],
    },
    {"window_name": "logs", "panes": [null]}
  ]
}`

const tomlWorkspace = `
session_name = "dev"
start_directory = "./app"

[options]
base-index = 1

[[windows]]
window_name = "editor"
layout = "main-vertical"
focus = true
panes = ["vim", { shell_command = ["make watch"] }]

[[windows]]
window_name = "logs"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_AllFormats verifies that the same workspace written in YAML,
// JSONC and TOML loads to the same Config.
func TestLoad_AllFormats(t *testing.T) {
	files := map[string]string{
		"dev.yaml": yamlWorkspace,
		"dev.json": jsonWorkspace,
		"dev.toml": tomlWorkspace,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg, err := Load(writeFile(t, dir, name, content))
			require.NoError(t, err)

			assert.Equal(t, "dev", cfg.SessionName)
			assert.Equal(t, filepath.Join(dir, "app"), cfg.StartDirectory)
			assert.Equal(t, 1, cfg.Options["base-index"])

			require.Len(t, cfg.Windows, 2)
			editor := cfg.Windows[0]
			assert.Equal(t, "editor", editor.WindowName)
			assert.Equal(t, "main-vertical", editor.Layout)
			assert.True(t, editor.Focus)
			require.Len(t, editor.Panes, 2)
			assert.Equal(t, []string{"vim"}, editor.Panes[0].ShellCommand)
			assert.Equal(t, []string{"make watch"}, editor.Panes[1].ShellCommand)
			assert.Equal(t, filepath.Join(dir, "app"), editor.Panes[1].StartDirectory)

			require.Len(t, cfg.Windows[1].Panes, 1)
			assert.Empty(t, cfg.Windows[1].Panes[0].ShellCommand)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitWorkspaceNotFound, cliErr.Code)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"broken.yaml": "session_name: [unclosed",
		"broken.json": `{"session_name": }`,
		"broken.toml": `session_name = `,
		"workspace.ini": "x",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), name, content))
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitWorkspaceInvalid, cliErr.Code)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for input, expect := range map[string]Format{
		"yaml": FormatYAML, "YML": FormatYAML, ".json": FormatJSON, "toml": FormatTOML,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, expect, got, input)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	project := t.TempDir()
	local := writeFile(t, project, ".tmux-workspace.toml", tomlWorkspace)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	named := writeFile(t, xdg, "tmux-workspace/web.yml", yamlWorkspace)

	t.Run("explicit file", func(t *testing.T) {
		got, err := Find(local, "")
		require.NoError(t, err)
		assert.Equal(t, local, got)
	})

	t.Run("directory", func(t *testing.T) {
		got, err := Find(project, "")
		require.NoError(t, err)
		assert.Equal(t, local, got)
	})

	t.Run("empty name uses dir", func(t *testing.T) {
		got, err := Find("", project)
		require.NoError(t, err)
		assert.Equal(t, local, got)
	})

	t.Run("named in config dir", func(t *testing.T) {
		got, err := Find("web", "")
		require.NoError(t, err)
		assert.Equal(t, named, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Find("nope", "")
		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitWorkspaceNotFound, cliErr.Code)
	})

	t.Run("directory without workspace", func(t *testing.T) {
		_, err := Find(t.TempDir(), "")
		assert.Error(t, err)
	})
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "tmux-workspace"), ConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/me")
	assert.Equal(t, filepath.Join("/home/me", ".config", "tmux-workspace"), ConfigDir())
}
