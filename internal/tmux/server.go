package tmux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Server is a handle on one tmux server, identified by its socket.
//
// It holds no session state of its own: every query runs a tmux command
// and parses the output fresh. All methods are synchronous and issue one
// subprocess call at a time.
type Server struct {
	runner     Runner
	socketName string
	socketPath string
	configFile string
	colors     int
	log        *logrus.Entry
}

// Option configures a Server.
type Option func(*Server)

// WithSocketName selects a named socket (tmux -L).
func WithSocketName(name string) Option {
	return func(s *Server) { s.socketName = name }
}

// WithSocketPath selects a socket by path (tmux -S). Takes precedence
// over WithSocketName inside tmux itself, so callers should set only one.
func WithSocketPath(path string) Option {
	return func(s *Server) { s.socketPath = path }
}

// WithConfigFile sets the configuration file loaded when the server starts
// (tmux -f).
func WithConfigFile(path string) Option {
	return func(s *Server) { s.configFile = path }
}

// WithColors forces 256 (-2) or 88 (-8) colour support. Other values are
// ignored.
func WithColors(colors int) Option {
	return func(s *Server) { s.colors = colors }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a Server that runs commands through runner.
func NewServer(runner Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "tmux")
	return s
}

// InTmux reports whether the current process runs inside a tmux client.
func InTmux() bool {
	return os.Getenv("TMUX") != ""
}

// globalArgs returns the server selection flags that precede every
// subcommand.
func (s *Server) globalArgs() []string {
	var args []string
	if s.socketName != "" {
		args = append(args, "-L", s.socketName)
	}
	if s.socketPath != "" {
		args = append(args, "-S", s.socketPath)
	}
	if s.configFile != "" {
		args = append(args, "-f", s.configFile)
	}
	switch s.colors {
	case 256:
		args = append(args, "-2")
	case 88:
		args = append(args, "-8")
	}
	return args
}

// Cmd runs a tmux subcommand against this server and returns the raw
// result. A non-empty Result.Stderr is NOT converted to an error here;
// use Result.Err for that.
func (s *Server) Cmd(ctx context.Context, args ...string) (*Result, error) {
	full := append(s.globalArgs(), args...)
	s.log.WithField("args", full).Debug("running tmux")

	res, err := s.runner.Run(ctx, full...)
	if err != nil {
		return nil, err
	}
	if len(res.Stderr) > 0 {
		s.log.WithFields(logrus.Fields{
			"args":   full,
			"stderr": strings.Join(res.Stderr, "; "),
		}).Debug("tmux wrote to stderr")
	}
	return res, nil
}

// run is Cmd with stderr folded into the returned error.
func (s *Server) run(ctx context.Context, args ...string) (*Result, error) {
	res, err := s.Cmd(ctx, args...)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// AttachArgs returns the full argv (without the binary) that attaches a
// terminal to target. Attaching needs the caller's TTY, so it can't go
// through a Runner that captures output.
func (s *Server) AttachArgs(target string) []string {
	return append(s.globalArgs(), "attach-session", "-t", target)
}

// Version returns the tmux version string (e.g. "3.4") from `tmux -V`.
func (s *Server) Version(ctx context.Context) (string, error) {
	res, err := s.run(ctx, "-V")
	if err != nil {
		return "", err
	}
	if len(res.Stdout) == 0 {
		return "", fmt.Errorf("tmux -V printed nothing")
	}
	// Output is "tmux 3.4", "tmux next-3.5" or "tmux master".
	out := strings.TrimSpace(res.Stdout[0])
	return strings.TrimPrefix(out, "tmux "), nil
}

// list runs a listing command and parses its rows. A missing server means
// there is nothing to list, which is not an error.
func (s *Server) list(ctx context.Context, fields []string, args ...string) ([]Row, error) {
	args = append(args, "-F", FormatString(fields))
	res, err := s.run(ctx, args...)
	if err != nil {
		if errors.Is(err, ErrNoServer) {
			return nil, nil
		}
		return nil, err
	}
	return ParseRows(fields, res.Stdout), nil
}

// Sessions returns one row per session.
func (s *Server) Sessions(ctx context.Context) ([]Row, error) {
	return s.list(ctx, SessionFormats, "list-sessions")
}

// Windows returns one row per window across all sessions.
func (s *Server) Windows(ctx context.Context) ([]Row, error) {
	return s.list(ctx, WindowFormats, "list-windows", "-a")
}

// Panes returns one row per pane across all sessions.
func (s *Server) Panes(ctx context.Context) ([]Row, error) {
	return s.list(ctx, paneListFormats, "list-panes", "-a")
}

// ListSessions returns all sessions on the server.
func (s *Server) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]*Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, newSession(s, r))
	}
	return sessions, nil
}

// FindSession returns the first session whose row matches attrs.
func (s *Server) FindSession(ctx context.Context, attrs map[string]string) (*Session, error) {
	rows, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	row, ok := FindWhere(rows, attrs)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, attrs)
	}
	return newSession(s, row), nil
}

// ResolveSession finds a session by id ("$3") or exact name.
func (s *Server) ResolveSession(ctx context.Context, ref string) (*Session, error) {
	if strings.HasPrefix(ref, "$") {
		return s.FindSession(ctx, map[string]string{"session_id": ref})
	}
	return s.FindSession(ctx, map[string]string{"session_name": ref})
}

// AttachedSessions returns the sessions with at least one client attached.
func (s *Server) AttachedSessions(ctx context.Context) ([]*Session, error) {
	all, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	var attached []*Session
	for _, sess := range all {
		if n, ok := sess.row.Int("session_attached"); ok && n > 0 {
			attached = append(attached, sess)
		}
	}
	return attached, nil
}

// HasSession reports whether a session named target exists. Names are
// matched exactly ("=name") rather than by tmux's default prefix matching.
func (s *Server) HasSession(ctx context.Context, target string) (bool, error) {
	if target == "" {
		return false, nil
	}
	if !strings.HasPrefix(target, "$") && !strings.HasPrefix(target, "=") {
		target = "=" + target
	}
	res, err := s.Cmd(ctx, "has-session", "-t", target)
	if err != nil {
		return false, err
	}
	cmdErr := res.Err()
	switch {
	case cmdErr == nil:
		return true, nil
	case errors.Is(cmdErr, ErrSessionNotFound), errors.Is(cmdErr, ErrNoServer):
		return false, nil
	default:
		return false, cmdErr
	}
}

// NewSessionOptions configures Server.NewSession.
type NewSessionOptions struct {
	// Name is the session name; empty lets tmux pick one.
	Name string

	// WindowName names the session's first window.
	WindowName string

	// StartDirectory is the working directory of the first window.
	StartDirectory string

	// Attach makes tmux attach the current terminal. Without it the
	// session is created detached (-d), which is what programmatic callers
	// want almost always.
	Attach bool

	// KillExisting kills a session of the same name first.
	KillExisting bool

	// Width and Height size a detached session (-x / -y). Zero means the
	// tmux default.
	Width, Height int

	// Command is run in the first pane instead of the default shell.
	Command string
}

// NewSession creates a session and returns it, parsed from the -P output.
func (s *Server) NewSession(ctx context.Context, opts NewSessionOptions) (*Session, error) {
	if opts.Name != "" {
		exists, err := s.HasSession(ctx, opts.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			if !opts.KillExisting {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateSession, opts.Name)
			}
			if err := s.KillSession(ctx, opts.Name); err != nil {
				return nil, err
			}
		}
	}

	args := []string{"new-session", "-P", "-F", FormatString(SessionFormats)}
	if !opts.Attach {
		args = append(args, "-d")
	}
	if opts.Name != "" {
		args = append(args, "-s", opts.Name)
	}
	if opts.WindowName != "" {
		args = append(args, "-n", opts.WindowName)
	}
	if opts.StartDirectory != "" {
		args = append(args, "-c", opts.StartDirectory)
	}
	if opts.Width > 0 {
		args = append(args, "-x", fmt.Sprint(opts.Width))
	}
	if opts.Height > 0 {
		args = append(args, "-y", fmt.Sprint(opts.Height))
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}

	res, err := s.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	rows := ParseRows(SessionFormats, res.Stdout)
	if len(rows) == 0 {
		return nil, fmt.Errorf("tmux new-session printed no session")
	}
	return newSession(s, rows[0]), nil
}

// KillSession kills the session named target (matched exactly) or with
// the given id.
func (s *Server) KillSession(ctx context.Context, target string) error {
	if !strings.HasPrefix(target, "$") && !strings.HasPrefix(target, "=") {
		target = "=" + target
	}
	_, err := s.run(ctx, "kill-session", "-t", target)
	return err
}

// KillServer kills the tmux server and every session on it.
func (s *Server) KillServer(ctx context.Context) error {
	_, err := s.run(ctx, "kill-server")
	return err
}

// SwitchClient switches the current client to target. Only meaningful
// when running inside tmux.
func (s *Server) SwitchClient(ctx context.Context, target string) error {
	_, err := s.run(ctx, "switch-client", "-t", target)
	return err
}

// SetOption sets a global session option (set-option -g).
func (s *Server) SetOption(ctx context.Context, option string, value any) error {
	_, err := s.run(ctx, "set-option", "-g", option, FormatOptionValue(value))
	return err
}

// ShowOptions returns the global session options (show-options -g).
func (s *Server) ShowOptions(ctx context.Context) (Options, error) {
	res, err := s.run(ctx, "show-options", "-g")
	if err != nil {
		return nil, err
	}
	return ParseOptions(res.Stdout), nil
}

// SetEnvironment sets a variable in the global environment.
func (s *Server) SetEnvironment(ctx context.Context, name, value string) error {
	_, err := s.run(ctx, "set-environment", "-g", name, value)
	return err
}

// ShowEnvironment returns the global environment. Variables marked for
// removal ("-NAME") are omitted.
func (s *Server) ShowEnvironment(ctx context.Context) (map[string]string, error) {
	res, err := s.run(ctx, "show-environment", "-g")
	if err != nil {
		return nil, err
	}
	return parseEnvironment(res.Stdout), nil
}

func parseEnvironment(lines []string) map[string]string {
	env := make(map[string]string, len(lines))
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		name, value, _ := strings.Cut(line, "=")
		env[name] = value
	}
	return env
}
