package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/furnistore/internal/client/bootstrap"
	"github.com/dmitrijs2005/furnistore/internal/client/guard"
	"github.com/dmitrijs2005/furnistore/internal/client/session"
	"github.com/dmitrijs2005/furnistore/internal/logging"
)

const appName = "furnictl"

type App struct {
	in  *bufio.Reader
	out *syncWriter
	log logging.Logger
	rt  *bootstrap.Runtime

	// lastUser is offered as the default at the next login prompt.
	lastUser string

	mu          sync.Mutex
	page        *guard.Guard
	loginWanted bool
	loading     string
}

// NewApp returns a shell reading from in and writing to out. The App is also
// the session's Notifier and Navigator, so it exists before the runtime and
// is connected to it with Attach.
func NewApp(in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{
		in:  bufio.NewReader(in),
		out: &syncWriter{w: out},
		log: log.With("component", "shell"),
	}
}

func (a *App) Attach(rt *bootstrap.Runtime) {
	a.rt = rt
}

// Run restores the session and serves commands until exit, EOF or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	a.printf("%s\n", figure.NewFigure(appName, "cybermedium", true).String())

	a.rt.Session.Initialize(ctx)
	if snap := a.rt.Session.Snapshot(); snap.IsAuthenticated() {
		a.lastUser = snap.User.Username
		a.printf("Signed in as %s (%s).\n", snap.User.Username, snap.User.Role)
	} else {
		a.printf("Type 'login' to sign in, 'help' for commands.\n")
	}

	runREPL(ctx, a, a.status, a.in, a.out)
	a.leavePage()
	return nil
}

func (a *App) Snapshot() session.Snapshot {
	return a.rt.Session.Snapshot()
}

func (a *App) status() string {
	snap := a.rt.Session.Snapshot()
	if !snap.IsAuthenticated() {
		return ""
	}
	return fmt.Sprintf("(%s %s)", snap.User.Username, snap.User.Role)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// syncWriter serialises output from the REPL and the watchdog goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
