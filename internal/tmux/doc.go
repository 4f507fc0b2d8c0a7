// Package tmux is a thin object binding over the tmux command-line tool.
//
// Every object in this package (Server, Session, Window, Pane) is a snapshot
// of one row printed by a tmux listing command. The tmux server owns the
// real state; a snapshot may be stale as soon as it is returned, and other
// clients can change or destroy the underlying object at any time.
//
// Each operation follows the same steps:
//   - build the argv for a tmux subcommand,
//   - run it through a Runner (one synchronous subprocess call),
//   - split stdout into lines and tab-separated fields,
//   - zip the fields with the requested format names into a Row,
//   - turn non-empty stderr into a *CommandError carrying the raw text.
//
// Stderr text is classified with errors.Is against the package sentinels
// (ErrNoServer, ErrPaneTooSmall, ...), so callers can branch on the kind of
// failure without parsing messages themselves.
//
// The Runner interface decouples command construction from process
// execution: ExecRunner runs a local tmux binary, and the docker package
// provides a Runner that runs tmux inside a container.
package tmux
