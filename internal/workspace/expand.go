package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expand normalizes a decoded workspace map into a Config.
//
// Shorthands accepted in the raw map:
//   - a pane given as a string is a pane running that one command;
//   - a null pane (or the words "blank" / "pane") is an empty pane;
//   - shell_command and shell_command_before may be a string or a list,
//     and list items may be {cmd: "..."} maps;
//   - a window without panes gets one empty pane.
//
// Start directories have "~" and $VARS expanded. A relative directory is
// resolved against its parent's directory: session against baseDir,
// window against session, pane against window. Empty directories inherit
// the parent's.
func Expand(raw map[string]any, baseDir string) (*Config, error) {
	normalized, err := normalizeSession(raw)
	if err != nil {
		return nil, err
	}

	// Round-trip through YAML to map the normalized tree onto the struct
	// tags. Numbers from JSON (float64) and TOML (int64) come back as int.
	data, err := yaml.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode workspace: %w", err)
	}

	cfg.resolveDirectories(baseDir)
	return &cfg, nil
}

func normalizeSession(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	if v, ok := out["shell_command_before"]; ok {
		out["shell_command_before"] = commandList(v)
	}

	windows, ok := sliceOf(out["windows"])
	if !ok && out["windows"] != nil {
		return nil, fmt.Errorf("windows: expected a list, got %T", out["windows"])
	}
	normalizedWindows := make([]any, 0, len(windows))
	for i, w := range windows {
		wm, ok := w.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("windows[%d]: expected a mapping, got %T", i, w)
		}
		nw, err := normalizeWindow(wm)
		if err != nil {
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
		normalizedWindows = append(normalizedWindows, nw)
	}
	out["windows"] = normalizedWindows
	return out, nil
}

func normalizeWindow(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	if v, ok := out["shell_command_before"]; ok {
		out["shell_command_before"] = commandList(v)
	}

	panes, ok := sliceOf(out["panes"])
	if !ok && out["panes"] != nil {
		return nil, fmt.Errorf("panes: expected a list, got %T", out["panes"])
	}
	normalizedPanes := make([]any, 0, len(panes))
	for i, p := range panes {
		np, err := normalizePane(p)
		if err != nil {
			return nil, fmt.Errorf("panes[%d]: %w", i, err)
		}
		normalizedPanes = append(normalizedPanes, np)
	}
	if len(normalizedPanes) == 0 {
		normalizedPanes = append(normalizedPanes, map[string]any{})
	}
	out["panes"] = normalizedPanes
	return out, nil
}

func normalizePane(raw any) (map[string]any, error) {
	switch p := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		switch strings.TrimSpace(p) {
		case "", "blank", "pane":
			return map[string]any{}, nil
		}
		return map[string]any{"shell_command": []any{p}}, nil
	case map[string]any:
		out := make(map[string]any, len(p))
		for k, v := range p {
			out[k] = v
		}
		if v, ok := out["shell_command"]; ok {
			out["shell_command"] = commandList(v)
		}
		return out, nil
	default:
		if items, ok := sliceOf(raw); ok {
			return map[string]any{"shell_command": commandList(items)}, nil
		}
		return nil, fmt.Errorf("expected a string, list or mapping, got %T", raw)
	}
}

// commandList normalizes a shell command field to a list of strings.
func commandList(v any) []any {
	switch c := v.(type) {
	case nil:
		return nil
	case string:
		if c == "" {
			return nil
		}
		return []any{c}
	}

	items, ok := sliceOf(v)
	if !ok {
		return []any{fmt.Sprint(v)}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, it)
		case map[string]any:
			if cmd, ok := it["cmd"].(string); ok {
				out = append(out, cmd)
			}
		case nil:
		default:
			out = append(out, fmt.Sprint(it))
		}
	}
	return out
}

// sliceOf converts the list types produced by the three decoders to []any.
// TOML arrays of tables decode as []map[string]any.
func sliceOf(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, str := range s {
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

func (c *Config) resolveDirectories(baseDir string) {
	c.StartDirectory = resolveDir(c.StartDirectory, baseDir)

	sessionDir := c.StartDirectory
	if sessionDir == "" {
		sessionDir = baseDir
	}
	for i := range c.Windows {
		w := &c.Windows[i]
		w.StartDirectory = resolveDir(w.StartDirectory, sessionDir)
		if w.StartDirectory == "" {
			w.StartDirectory = c.StartDirectory
		}

		windowDir := w.StartDirectory
		if windowDir == "" {
			windowDir = sessionDir
		}
		for j := range w.Panes {
			p := &w.Panes[j]
			p.StartDirectory = resolveDir(p.StartDirectory, windowDir)
			if p.StartDirectory == "" {
				p.StartDirectory = w.StartDirectory
			}
		}
	}
}

func resolveDir(dir, parent string) string {
	if dir == "" {
		return ""
	}
	dir = expandPath(dir)
	if !filepath.IsAbs(dir) && parent != "" {
		dir = filepath.Join(parent, dir)
	}
	return filepath.Clean(dir)
}

// expandPath expands environment variables and a leading "~".
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
