package workspace

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shinji-kodama/tmux-workspace/internal/tmux"
)

// fakeServer is a tiny in-memory tmux used to exercise the Builder and
// Freeze end to end. It tracks one session's windows and panes and prints
// rows in whatever -F field order the caller requested.
type fakeServer struct {
	calls         [][]string
	sessionExists bool
	sessionName   string
	windows       []map[string]string
	panes         []map[string]string
	nextID        int
}

var formatFieldRe = regexp.MustCompile(`#\{([^}]+)\}`)

func (f *fakeServer) runner() tmux.Runner {
	return tmux.RunnerFunc(func(_ context.Context, args ...string) (*tmux.Result, error) {
		f.calls = append(f.calls, args)
		res := &tmux.Result{Args: args}
		switch args[0] {
		case "has-session":
			if !f.sessionExists {
				res.Stderr = []string{"can't find session: " + strings.TrimPrefix(argAfter(args, "-t"), "=")}
			}
		case "kill-session":
			f.sessionExists = false
			f.windows, f.panes = nil, nil
		case "new-session":
			f.sessionExists = true
			f.sessionName = argAfter(args, "-s")
			w := f.addWindow(argAfter(args, "-n"), argAfter(args, "-c"))
			w["window_active"] = "1"
			res.Stdout = []string{render(args, map[string]string{"session_id": "$1", "session_name": f.sessionName})}
		case "new-window":
			w := f.addWindow(argAfter(args, "-n"), argAfter(args, "-c"))
			res.Stdout = []string{render(args, w)}
		case "split-window":
			p, err := f.split(argAfter(args, "-t"), argAfter(args, "-c"))
			if err != nil {
				res.Stderr = []string{err.Error()}
				break
			}
			res.Stdout = []string{render(args, p)}
		case "list-sessions":
			if f.sessionExists {
				res.Stdout = []string{render(args, map[string]string{"session_id": "$1", "session_name": f.sessionName})}
			}
		case "list-windows":
			for _, w := range f.windows {
				res.Stdout = append(res.Stdout, render(args, w))
			}
		case "list-panes":
			for _, p := range f.panes {
				res.Stdout = append(res.Stdout, render(args, p))
			}
		}
		return res, nil
	})
}

func (f *fakeServer) addWindow(name, dir string) map[string]string {
	f.nextID++
	w := map[string]string{
		"session_id":    "$1",
		"session_name":  f.sessionName,
		"window_id":     fmt.Sprintf("@%d", f.nextID),
		"window_index":  fmt.Sprint(len(f.windows)),
		"window_name":   name,
		"window_layout": "b25d,80x24,0,0,1",
	}
	f.windows = append(f.windows, w)
	f.addPane(w, dir, true)
	return w
}

func (f *fakeServer) addPane(w map[string]string, dir string, active bool) map[string]string {
	count := 0
	for _, p := range f.panes {
		if p["window_id"] == w["window_id"] {
			count++
		}
	}
	f.nextID++
	p := map[string]string{
		"session_id":           "$1",
		"session_name":         f.sessionName,
		"window_id":            w["window_id"],
		"window_index":         w["window_index"],
		"pane_id":              fmt.Sprintf("%%%d", f.nextID),
		"pane_index":           fmt.Sprint(count),
		"pane_current_path":    dir,
		"pane_current_command": "zsh",
	}
	if active {
		p["pane_active"] = "1"
	}
	f.panes = append(f.panes, p)
	return p
}

func (f *fakeServer) split(target, dir string) (map[string]string, error) {
	var windowID string
	for _, p := range f.panes {
		if p["pane_id"] == target {
			windowID = p["window_id"]
		}
	}
	if _, id, ok := strings.Cut(target, ":"); ok {
		windowID = id
	}
	for _, w := range f.windows {
		if w["window_id"] == windowID {
			return f.addPane(w, dir, false), nil
		}
	}
	return nil, fmt.Errorf("can't find pane: %s", target)
}

// callsTo returns every recorded argv for subcommand sub.
func (f *fakeServer) callsTo(sub string) [][]string {
	var out [][]string
	for _, c := range f.calls {
		if c[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

// typed returns the keys sent with send-keys, excluding Enter presses.
func (f *fakeServer) typed() []string {
	var out []string
	for _, c := range f.callsTo("send-keys") {
		if keys := c[len(c)-1]; keys != "Enter" {
			out = append(out, c[2]+" "+keys)
		}
	}
	return out
}

// render prints values in the field order of the -F argument in args.
func render(args []string, values map[string]string) string {
	var cols []string
	for _, m := range formatFieldRe.FindAllStringSubmatch(argAfter(args, "-F"), -1) {
		cols = append(cols, values[m[1]])
	}
	return strings.Join(cols, "\t")
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
