package workspace

import (
	"errors"
	"fmt"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// Validate checks a Config before it is built. Every problem found is
// reported; the returned error joins them with errors.Join.
//
// Checks performed:
//   - the session name is usable as a tmux target
//   - there is at least one window
//   - every window has a name and a valid layout
//   - at most one window and one pane per window request focus
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("workspace is empty")
	}

	var errs []error

	if err := model.ValidateSessionName(cfg.SessionName); err != nil {
		errs = append(errs, fmt.Errorf("session_name: %w", err))
	}

	if len(cfg.Windows) == 0 {
		errs = append(errs, errors.New("windows: at least one window is required"))
	}

	focusedWindows := 0
	for i, w := range cfg.Windows {
		if w.WindowName == "" {
			errs = append(errs, fmt.Errorf("windows[%d]: window_name is required", i))
		}
		if w.Layout != "" {
			if _, err := model.ParseLayout(w.Layout); err != nil {
				errs = append(errs, fmt.Errorf("windows[%d] (%s): %w", i, w.WindowName, err))
			}
		}
		if w.Focus {
			focusedWindows++
		}

		focusedPanes := 0
		for _, p := range w.Panes {
			if p.Focus {
				focusedPanes++
			}
		}
		if focusedPanes > 1 {
			errs = append(errs, fmt.Errorf("windows[%d] (%s): %d panes have focus set, expected at most one", i, w.WindowName, focusedPanes))
		}
	}
	if focusedWindows > 1 {
		errs = append(errs, fmt.Errorf("windows: %d windows have focus set, expected at most one", focusedWindows))
	}

	return errors.Join(errs...)
}
