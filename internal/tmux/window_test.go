package tmux

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWindow_Identity checks the accessors and the fully qualified target
// used by every window command.
func TestWindow_Identity(t *testing.T) {
	_, w := devWindow(t)

	assert.Equal(t, "@1", w.ID())
	assert.Equal(t, "0", w.Index())
	assert.Equal(t, "editor", w.Name())
	assert.Equal(t, "$1:@1", w.Target())
	assert.Equal(t, "2", w.Get("window_panes"))
	assert.Equal(t, "Window(@1 0:editor, Session($1 dev))", w.String())

	row := w.Row()
	row["window_name"] = "mutated"
	assert.Equal(t, "editor", w.Name(), "Row returns a copy")
}

// TestWindow_SelectLayout covers presets, custom layout strings, the empty
// layout and rejection of garbage before tmux is called.
func TestWindow_SelectLayout(t *testing.T) {
	tests := []struct {
		name    string
		layout  string
		expect  []string
		wantErr bool
	}{
		{
			name:   "preset",
			layout: "main-vertical",
			expect: []string{"select-layout", "-t", "$1:@1", "main-vertical"},
		},
		{
			name:   "preset case-insensitive",
			layout: "Tiled",
			expect: []string{"select-layout", "-t", "$1:@1", "tiled"},
		},
		{
			name:   "custom",
			layout: "bb62,159x48,0,0{79x48,0,0,0,79x48,80,0,1}",
			expect: []string{"select-layout", "-t", "$1:@1", "bb62,159x48,0,0{79x48,0,0,0,79x48,80,0,1}"},
		},
		{
			name:   "empty reapplies",
			layout: "",
			expect: []string{"select-layout", "-t", "$1:@1"},
		},
		{
			name:    "invalid",
			layout:  "diagonal",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w := devWindow(t)

			err := w.SelectLayout(context.Background(), tt.layout)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, f.callsTo("select-layout"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, f.lastCall("select-layout"))
		})
	}
}

// TestWindow_SelectLayout_TmuxError checks that a tmux-side rejection is
// surfaced with its stderr.
func TestWindow_SelectLayout_TmuxError(t *testing.T) {
	f, w := devWindow(t)
	f.fail("select-layout", "invalid layout: bb62,1x1,0,0")

	err := w.SelectLayout(context.Background(), "bb62,1x1,0,0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layout: bb62,1x1,0,0")
}

func TestWindow_SetWindowOption(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		expect string
	}{
		{"bool true", true, "on"},
		{"bool false", false, "off"},
		{"int", 30, "30"},
		{"string", "vi", "vi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w := devWindow(t)

			require.NoError(t, w.SetWindowOption(context.Background(), "some-option", tt.value))
			assert.Equal(t, []string{"set-window-option", "-t", "@1", "some-option", tt.expect}, f.lastCall("set-window-option"))
		})
	}
}

// TestWindow_SetWindowOption_Stderr verifies that tmux's stderr is raised
// verbatim and classified.
func TestWindow_SetWindowOption_Stderr(t *testing.T) {
	f, w := devWindow(t)
	f.fail("set-window-option", "unknown option: bogus")

	err := w.SetWindowOption(context.Background(), "bogus", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown option: bogus")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, []string{"unknown option: bogus"}, cmdErr.Stderr)
}

func TestWindow_ShowWindowOptions(t *testing.T) {
	f, w := devWindow(t)
	f.on("show-window-options", "automatic-rename off", "pane-base-index 1", "mode-keys vi")
	ctx := context.Background()

	opts, err := w.ShowWindowOptions(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, Options{"automatic-rename": "off", "pane-base-index": 1, "mode-keys": "vi"}, opts)
	assert.Equal(t, []string{"show-window-options", "-t", "@1"}, f.lastCall("show-window-options"))

	_, err = w.ShowWindowOptions(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"show-window-options", "-g"}, f.lastCall("show-window-options"))
}

func TestWindow_ShowWindowOption(t *testing.T) {
	f, w := devWindow(t)
	ctx := context.Background()

	f.on("show-window-options", "main-pane-width 80")
	v, ok, err := w.ShowWindowOption(ctx, "main-pane-width", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 80, v)
	assert.Equal(t, []string{"show-window-options", "-t", "@1", "main-pane-width"}, f.lastCall("show-window-options"))

	f.on("show-window-options", "main-pane-width 120")
	v, ok, err = w.ShowWindowOption(ctx, "main-pane-width", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 120, v)
	assert.Equal(t, []string{"show-window-options", "-g", "main-pane-width"}, f.lastCall("show-window-options"))

	f.on("show-window-options")
	v, ok, err = w.ShowWindowOption(ctx, "main-pane-width", false)
	require.NoError(t, err)
	assert.False(t, ok, "unset options report not-ok")
	assert.Nil(t, v)

	f.fail("show-window-options", "invalid option: nope")
	_, _, err = w.ShowWindowOption(ctx, "nope", false)
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestWindow_RenameWindow(t *testing.T) {
	f, w := devWindow(t)
	ctx := context.Background()

	require.NoError(t, w.RenameWindow(ctx, "code"))
	assert.Equal(t, "code", w.Name())
	assert.Equal(t, []string{"rename-window", "-t", "$1:@1", "code"}, f.lastCall("rename-window"))

	f.fail("rename-window", "can't find window: @1")
	err := w.RenameWindow(ctx, "again")
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.Equal(t, "code", w.Name(), "failed renames leave the snapshot alone")
}

// TestWindow_SelectPane covers the three argument forms.
func TestWindow_SelectPane(t *testing.T) {
	tests := []struct {
		name   string
		target string
		expect []string
	}{
		{"direction word", "up", []string{"select-pane", "-t", "$1:@1", "-U"}},
		{"direction flag", "-R", []string{"select-pane", "-t", "$1:@1", "-R"}},
		{"last", "last", []string{"select-pane", "-t", "$1:@1", "-l"}},
		{"pane index", "1", []string{"select-pane", "-t", "$1:@1.1"}},
		{"pane id", "%2", []string{"select-pane", "-t", "%2"}},
		{"full target", "dev:0.1", []string{"select-pane", "-t", "dev:0.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w := devWindow(t)

			p, err := w.SelectPane(context.Background(), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, f.lastCall("select-pane"))
			assert.Equal(t, "%1", p.ID(), "the active pane is re-read after selecting")
		})
	}
}

func TestWindow_SelectPane_Error(t *testing.T) {
	f, w := devWindow(t)
	f.fail("select-pane", "can't find pane: 7")

	_, err := w.SelectPane(context.Background(), "7")
	assert.ErrorIs(t, err, ErrPaneNotFound)
}

func splitOutput(paneID string) string {
	return formatLine(paneListFormats, map[string]string{
		"session_id": "$1", "session_name": "dev", "window_id": "@1", "window_index": "0",
		"pane_id": paneID, "pane_index": "2", "pane_active": "1",
	})
}

// TestWindow_SplitWindow_DefaultTarget verifies that with no target the
// window's first pane is split, and the -P output becomes the new Pane.
func TestWindow_SplitWindow_DefaultTarget(t *testing.T) {
	f, w := devWindow(t)
	f.on("split-window", splitOutput("%4"))

	p, err := w.SplitWindow(context.Background(), SplitOptions{})
	require.NoError(t, err)
	assert.Equal(t, "%4", p.ID())
	assert.Equal(t, "2", p.Index())
	assert.Same(t, w, p.Window())

	assert.Equal(t, []string{
		"split-window", "-t", "%1", "-P", "-F", FormatString(paneListFormats), "-v",
	}, f.lastCall("split-window"))
}

func TestWindow_SplitWindow_AllOptions(t *testing.T) {
	f, w := devWindow(t)
	f.on("split-window", splitOutput("%5"))

	_, err := w.SplitWindow(context.Background(), SplitOptions{
		Target:         "%2",
		Detach:         true,
		Horizontal:     true,
		StartDirectory: "/src/api",
		Size:           "30%",
		Command:        "htop",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"split-window", "-t", "%2", "-P", "-F", FormatString(paneListFormats),
		"-d", "-h", "-c", "/src/api", "-l", "30%", "htop",
	}, f.lastCall("split-window"))
	assert.Empty(t, f.callsTo("list-panes"), "an explicit target needs no pane listing")
}

// TestWindow_SplitWindow_NoPanes falls back to the window target when the
// listing has no panes for the window.
func TestWindow_SplitWindow_NoPanes(t *testing.T) {
	f, w := devWindow(t)
	f.on("list-panes")
	f.on("split-window", splitOutput("%6"))

	_, err := w.SplitWindow(context.Background(), SplitOptions{})
	require.NoError(t, err)
	assert.Equal(t, "$1:@1", f.lastCall("split-window")[2])
}

func TestWindow_SplitWindow_TooSmall(t *testing.T) {
	f, w := devWindow(t)
	f.fail("split-window", "no space for new pane")

	_, err := w.SplitWindow(context.Background(), SplitOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaneTooSmall)
	assert.Contains(t, err.Error(), "no space for new pane")
}

func TestWindow_SplitWindow_NoOutput(t *testing.T) {
	f, w := devWindow(t)
	f.on("split-window")

	_, err := w.SplitWindow(context.Background(), SplitOptions{Target: "%1"})
	assert.Error(t, err)
}

func TestWindow_ListPanes(t *testing.T) {
	_, w := devWindow(t)

	panes, err := w.ListPanes(context.Background())
	require.NoError(t, err)
	require.Len(t, panes, 2, "only panes of @1")
	assert.Equal(t, "%1", panes[0].ID())
	assert.Equal(t, "%2", panes[1].ID())
	assert.Equal(t, "/src", panes[0].Get("pane_current_path"))
}

func TestWindow_AttachedPane(t *testing.T) {
	f, w := devWindow(t)

	p, err := w.AttachedPane(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%1", p.ID())

	f.on("list-panes", formatLine(paneListFormats, map[string]string{
		"session_id": "$1", "window_id": "@1", "pane_id": "%1", "pane_active": "0",
	}))
	_, err = w.AttachedPane(context.Background())
	assert.ErrorIs(t, err, ErrPaneNotFound)
}

func TestWindow_SelectAndKill(t *testing.T) {
	f, w := devWindow(t)
	ctx := context.Background()

	require.NoError(t, w.Select(ctx))
	assert.Equal(t, []string{"select-window", "-t", "$1:@1"}, f.lastCall("select-window"))

	require.NoError(t, w.Kill(ctx))
	assert.Equal(t, []string{"kill-window", "-t", "$1:@1"}, f.lastCall("kill-window"))
}

func TestWindow_Refresh(t *testing.T) {
	f, w := devWindow(t)
	f.on("list-windows", formatLine(WindowFormats, map[string]string{
		"session_id": "$1", "window_id": "@1", "window_index": "5", "window_name": "moved",
	}))

	require.NoError(t, w.Refresh(context.Background()))
	assert.Equal(t, "5", w.Index())
	assert.Equal(t, "moved", w.Name())

	f.on("list-windows")
	assert.ErrorIs(t, w.Refresh(context.Background()), ErrWindowNotFound)
}
