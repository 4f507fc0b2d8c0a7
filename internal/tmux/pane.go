package tmux

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shinji-kodama/tmux-workspace/internal/model"
)

// Pane is a snapshot of one tmux pane, identified by its pane_id ("%5").
type Pane struct {
	window *Window
	row    Row
}

func newPane(window *Window, row Row) *Pane {
	return &Pane{window: window, row: row}
}

// ID returns the pane id, e.g. "%5".
func (p *Pane) ID() string { return p.row.Get("pane_id") }

// Index returns the pane index within its window.
func (p *Pane) Index() string { return p.row.Get("pane_index") }

// Get returns a field from the snapshot row.
func (p *Pane) Get(field string) string { return p.row.Get(field) }

// Row returns a copy of the snapshot row.
func (p *Pane) Row() Row { return p.row.clone() }

// Window returns the window the pane was listed in.
func (p *Pane) Window() *Window { return p.window }

// Target returns the pane id, which is unique across the whole server.
func (p *Pane) Target() string { return p.ID() }

func (p *Pane) server() *Server { return p.window.server() }

func (p *Pane) String() string {
	return fmt.Sprintf("Pane(%s, %s)", p.ID(), p.window)
}

// Refresh re-reads the pane row from the server.
func (p *Pane) Refresh(ctx context.Context) error {
	rows, err := p.server().Panes(ctx)
	if err != nil {
		return err
	}
	row, ok := FindWhere(rows, map[string]string{"pane_id": p.ID()})
	if !ok {
		return fmt.Errorf("%w: %s", ErrPaneNotFound, p.ID())
	}
	p.row = row
	return nil
}

// SendKeysOptions configures Pane.SendKeys.
type SendKeysOptions struct {
	// Enter presses Enter after the keys.
	Enter bool

	// Literal sends the keys as literal UTF-8 (-l), so words like "Enter"
	// or "C-c" are typed rather than interpreted as key names.
	Literal bool
}

// SendKeys types keys into the pane.
func (p *Pane) SendKeys(ctx context.Context, keys string, opts SendKeysOptions) error {
	args := []string{"send-keys", "-t", p.Target()}
	if opts.Literal {
		args = append(args, "-l")
	}
	args = append(args, keys)
	if _, err := p.server().run(ctx, args...); err != nil {
		return err
	}
	if opts.Enter {
		return p.Enter(ctx)
	}
	return nil
}

// Enter presses Enter in the pane.
func (p *Pane) Enter(ctx context.Context) error {
	_, err := p.server().run(ctx, "send-keys", "-t", p.Target(), "Enter")
	return err
}

// Clear runs `reset` in the pane's shell.
func (p *Pane) Clear(ctx context.Context) error {
	return p.SendKeys(ctx, "reset", SendKeysOptions{Enter: true})
}

// Reset resets the terminal state and clears the scrollback history.
func (p *Pane) Reset(ctx context.Context) error {
	if _, err := p.server().run(ctx, "send-keys", "-t", p.Target(), "-R"); err != nil {
		return err
	}
	_, err := p.server().run(ctx, "clear-history", "-t", p.Target())
	return err
}

// ResizeOptions configures Pane.Resize. Either a Direction with an
// Adjustment, or an absolute Width/Height, or Zoom.
type ResizeOptions struct {
	Direction  model.Direction
	Adjustment int
	Width      int
	Height     int
	Zoom       bool
}

// Resize resizes the pane.
func (p *Pane) Resize(ctx context.Context, opts ResizeOptions) error {
	args := []string{"resize-pane", "-t", p.Target()}
	switch {
	case opts.Zoom:
		args = append(args, "-Z")
	case opts.Direction != "":
		flag := opts.Direction.Flag()
		if flag == "" || opts.Direction == model.DirectionLast {
			return fmt.Errorf("invalid resize direction %q", opts.Direction)
		}
		args = append(args, flag)
		if opts.Adjustment > 0 {
			args = append(args, strconv.Itoa(opts.Adjustment))
		}
	default:
		if opts.Width > 0 {
			args = append(args, "-x", strconv.Itoa(opts.Width))
		}
		if opts.Height > 0 {
			args = append(args, "-y", strconv.Itoa(opts.Height))
		}
	}
	if _, err := p.server().run(ctx, args...); err != nil {
		return err
	}
	return p.Refresh(ctx)
}

// Select makes this pane the active pane of its window.
func (p *Pane) Select(ctx context.Context) error {
	_, err := p.server().run(ctx, "select-pane", "-t", p.Target())
	return err
}

// Capture returns the visible contents of the pane, one string per line.
func (p *Pane) Capture(ctx context.Context) ([]string, error) {
	res, err := p.server().run(ctx, "capture-pane", "-p", "-t", p.Target())
	if err != nil {
		return nil, err
	}
	return res.Stdout, nil
}

// Split splits this pane and returns the new one.
func (p *Pane) Split(ctx context.Context, opts SplitOptions) (*Pane, error) {
	opts.Target = p.Target()
	return p.window.SplitWindow(ctx, opts)
}

// Kill kills the pane.
func (p *Pane) Kill(ctx context.Context) error {
	_, err := p.server().run(ctx, "kill-pane", "-t", p.Target())
	return err
}
