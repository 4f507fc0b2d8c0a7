package workspace

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// Builder creates the session described by a Config on a tmux server.
type Builder struct {
	server *tmux.Server
	log    *logrus.Entry
}

// NewBuilder creates a Builder. A nil log uses the standard logger.
func NewBuilder(server *tmux.Server, log *logrus.Entry) *Builder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Builder{server: server, log: log.WithField("component", "workspace")}
}

// BuildOptions configures Builder.Build.
type BuildOptions struct {
	// KillExisting replaces a running session of the same name. Without
	// it, an existing session fails the build with tmux.ErrDuplicateSession.
	KillExisting bool
}

// Build creates the session and returns it.
//
// The order of operations is:
//  1. create the session detached, naming its first window
//  2. apply global options, session options and environment
//  3. per window: create it (the first reuses the session's window), apply
//     window options, then create the remaining panes one split at a time,
//     re-applying the layout after each split so later splits have room
//  4. type each pane's commands
//  5. apply pane focus, then window focus
//
// A failure stops the build and leaves whatever was created in place; the
// caller decides whether to kill the partial session.
func (b *Builder) Build(ctx context.Context, cfg *Config, opts BuildOptions) (*tmux.Session, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	first := &cfg.Windows[0]
	sess, err := b.server.NewSession(ctx, tmux.NewSessionOptions{
		Name:           cfg.SessionName,
		WindowName:     first.WindowName,
		StartDirectory: firstPaneDir(first),
		KillExisting:   opts.KillExisting,
	})
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", cfg.SessionName, err)
	}
	log := b.log.WithField("session", sess.Name())
	log.Debug("session created")

	for _, name := range sortedKeys(cfg.GlobalOptions) {
		if err := b.server.SetOption(ctx, name, cfg.GlobalOptions[name]); err != nil {
			return sess, fmt.Errorf("global option %s: %w", name, err)
		}
	}
	for _, name := range sortedKeys(cfg.Options) {
		if err := sess.SetOption(ctx, name, cfg.Options[name]); err != nil {
			return sess, fmt.Errorf("session option %s: %w", name, err)
		}
	}
	for _, name := range sortedKeys(cfg.Environment) {
		if err := sess.SetEnvironment(ctx, name, cfg.Environment[name]); err != nil {
			return sess, fmt.Errorf("environment %s: %w", name, err)
		}
	}

	var focusWindow *tmux.Window
	var firstWindow *tmux.Window
	for i := range cfg.Windows {
		wc := &cfg.Windows[i]
		w, err := b.buildWindow(ctx, sess, cfg, wc, i == 0)
		if err != nil {
			return sess, fmt.Errorf("window %s: %w", wc.WindowName, err)
		}
		log.WithField("window", w.ID()).Debugf("window %q built", wc.WindowName)

		if i == 0 {
			firstWindow = w
		}
		if wc.Focus {
			focusWindow = w
		}
	}

	if focusWindow == nil {
		focusWindow = firstWindow
	}
	if err := focusWindow.Select(ctx); err != nil {
		return sess, fmt.Errorf("focus window: %w", err)
	}
	return sess, nil
}

func (b *Builder) buildWindow(ctx context.Context, sess *tmux.Session, cfg *Config, wc *WindowConfig, first bool) (*tmux.Window, error) {
	var w *tmux.Window
	var err error
	if first {
		w, err = sess.AttachedWindow(ctx)
	} else {
		w, err = sess.NewWindow(ctx, tmux.NewWindowOptions{
			Name:           wc.WindowName,
			StartDirectory: firstPaneDir(wc),
			Detach:         true,
		})
	}
	if err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(wc.Options) {
		if err := w.SetWindowOption(ctx, name, wc.Options[name]); err != nil {
			return w, err
		}
	}

	panes := wc.Panes
	if len(panes) == 0 {
		panes = []PaneConfig{{}}
	}

	prev, err := w.AttachedPane(ctx)
	if err != nil {
		return w, err
	}
	created := []*tmux.Pane{prev}
	for _, pc := range panes[1:] {
		p, err := prev.Split(ctx, tmux.SplitOptions{
			StartDirectory: pc.StartDirectory,
			Detach:         true,
		})
		if err != nil {
			return w, err
		}
		if wc.Layout != "" {
			if err := w.SelectLayout(ctx, wc.Layout); err != nil {
				return w, err
			}
		}
		created = append(created, p)
		prev = p
	}

	var focusPane *tmux.Pane
	for i, p := range created {
		pc := &panes[i]
		for _, cmd := range cfg.commands(wc, pc) {
			if err := p.SendKeys(ctx, cmd, tmux.SendKeysOptions{Enter: true}); err != nil {
				return w, err
			}
		}
		if pc.Focus {
			focusPane = p
		}
	}

	if wc.Layout != "" {
		if err := w.SelectLayout(ctx, wc.Layout); err != nil {
			return w, err
		}
	}
	if focusPane == nil {
		focusPane = created[0]
	}
	if err := focusPane.Select(ctx); err != nil {
		return w, err
	}
	return w, nil
}

// firstPaneDir is the directory the window's initial pane starts in. After
// Expand every pane carries its inherited directory, so the first pane's
// directory is also the window's.
func firstPaneDir(wc *WindowConfig) string {
	if len(wc.Panes) > 0 && wc.Panes[0].StartDirectory != "" {
		return wc.Panes[0].StartDirectory
	}
	return wc.StartDirectory
}

// sortedKeys returns map keys in a stable order so builds are reproducible.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
