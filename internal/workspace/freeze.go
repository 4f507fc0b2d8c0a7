package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// shells are pane_current_command values that mean "idle at a prompt".
// Panes running anything else get that command recorded.
var shells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "fish": true,
	"dash": true, "ksh": true, "tcsh": true, "csh": true,
}

// Freeze snapshots a running session into a Config.
//
// Each window records its name, current layout string and focus; each pane
// records its working directory, focus and the foreground command when it
// is not a shell. When all panes of a window share a directory it is
// lifted onto the window.
func Freeze(ctx context.Context, sess *tmux.Session) (*Config, error) {
	windows, err := sess.ListWindows(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SessionName: sess.Name(),
		Windows:     make([]WindowConfig, 0, len(windows)),
	}
	for _, w := range windows {
		panes, err := w.ListPanes(ctx)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.ID(), err)
		}

		wc := WindowConfig{
			WindowName: w.Name(),
			Layout:     w.Get("window_layout"),
			Focus:      w.Row().Bool("window_active"),
			Panes:      make([]PaneConfig, 0, len(panes)),
		}
		for _, p := range panes {
			pc := PaneConfig{
				StartDirectory: p.Get("pane_current_path"),
				Focus:          p.Row().Bool("pane_active"),
			}
			if cmd := p.Get("pane_current_command"); cmd != "" && !shells[filepath.Base(cmd)] {
				pc.ShellCommand = []string{cmd}
			}
			wc.Panes = append(wc.Panes, pc)
		}
		liftCommonDirectory(&wc)
		cfg.Windows = append(cfg.Windows, wc)
	}
	liftSessionDirectory(cfg)
	return cfg, nil
}

func liftCommonDirectory(wc *WindowConfig) {
	if len(wc.Panes) == 0 {
		return
	}
	dir := wc.Panes[0].StartDirectory
	for _, p := range wc.Panes[1:] {
		if p.StartDirectory != dir {
			return
		}
	}
	wc.StartDirectory = dir
	for i := range wc.Panes {
		wc.Panes[i].StartDirectory = ""
	}
}

func liftSessionDirectory(cfg *Config) {
	if len(cfg.Windows) == 0 {
		return
	}
	dir := cfg.Windows[0].StartDirectory
	if dir == "" {
		return
	}
	for _, w := range cfg.Windows[1:] {
		if w.StartDirectory != dir {
			return
		}
	}
	cfg.StartDirectory = dir
	for i := range cfg.Windows {
		cfg.Windows[i].StartDirectory = ""
	}
}

// Marshal encodes a Config in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported workspace format %q", format)
	}
}
