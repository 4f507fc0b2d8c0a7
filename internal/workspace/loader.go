package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// Format is a workspace file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DefaultFileName is the base name of a project-local workspace file. Find
// looks for it with each supported extension.
const DefaultFileName = ".tmux-workspace"

// extensions lists the recognized file extensions in search order.
var extensions = []string{".yaml", ".yml", ".json", ".toml"}

// ParseFormat converts a format name ("yaml", "yml", "json", "toml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported workspace format %q (valid: yaml, json, toml)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads, decodes and expands a workspace file. Relative start
// directories are resolved against the file's directory.
//
// Returns a CLIError with ExitWorkspaceNotFound if the file does not exist
// and ExitWorkspaceInvalid if it cannot be parsed.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitWorkspaceInvalid, "unrecognized workspace file", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(
				model.ExitWorkspaceNotFound,
				fmt.Sprintf("workspace file not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	cfg, err := Decode(data, format, filepath.Dir(absPath))
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitWorkspaceInvalid,
			fmt.Sprintf("failed to parse workspace file %s", path),
			err,
		)
	}
	return cfg, nil
}

// Decode parses workspace data in the given format and expands it.
func Decode(data []byte, format Format, baseDir string) (*Config, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return Expand(raw, baseDir)
}

// decodeRaw decodes data into the format-agnostic map Expand consumes.
func decodeRaw(data []byte, format Format) (map[string]any, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatJSON:
		// Strip // and /* */ comments and trailing commas first, so
		// hand-written JSON workspaces can be annotated.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported workspace format %q", format)
	}
	return raw, nil
}

// Find locates a workspace file.
//
// name may be:
//   - a path to a file, returned as-is;
//   - a directory (or "" for dir), searched for .tmux-workspace.<ext>;
//   - a bare name, looked up as <name>.<ext> in ConfigDir().
func Find(name, dir string) (string, error) {
	if name == "" {
		name = dir
	}

	if info, err := os.Stat(name); err == nil {
		if !info.IsDir() {
			return name, nil
		}
		if path, ok := firstExisting(filepath.Join(name, DefaultFileName)); ok {
			return path, nil
		}
		return "", model.NewCLIError(
			model.ExitWorkspaceNotFound,
			fmt.Sprintf("no %s.{yaml,yml,json,toml} in %s", DefaultFileName, name),
		)
	}

	if !strings.ContainsRune(name, filepath.Separator) {
		base := filepath.Join(ConfigDir(), strings.TrimSuffix(name, filepath.Ext(name)))
		if path, ok := firstExisting(base); ok {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitWorkspaceNotFound,
		fmt.Sprintf("workspace %q not found (looked in the current path and %s)", name, ConfigDir()),
	)
}

// ConfigDir is the directory holding named workspaces:
// $XDG_CONFIG_HOME/tmux-workspace, or ~/.config/tmux-workspace.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tmux-workspace")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "tmux-workspace")
	}
	return filepath.Join(home, ".config", "tmux-workspace")
}

func firstExisting(base string) (string, bool) {
	for _, ext := range extensions {
		path := base + ext
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
