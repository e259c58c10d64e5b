// Package guard decides whether a protected view may be shown for the
// current session, and sends the user to the login entry point when it may
// not.
package guard

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/furnistore/internal/client/session"
)

var (
	ErrWaiting    = errors.New("session is still loading")
	ErrRedirected = errors.New("redirected to login")
)

// Requirement is the minimum access a view needs.
type Requirement int

const (
	RequireAuthenticated Requirement = iota
	RequireStaff
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireStaff:
		return "staff"
	case RequireAdmin:
		return "admin"
	default:
		return "authenticated"
	}
}

type Decision int

const (
	DecisionWait Decision = iota
	DecisionRedirect
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionRedirect:
		return "redirect"
	case DecisionRender:
		return "render"
	default:
		return "wait"
	}
}

// Evaluate maps a session snapshot to a decision. Nothing is rendered and
// nothing navigates while the session is loading.
func Evaluate(s session.Snapshot, req Requirement) Decision {
	if s.Loading() {
		return DecisionWait
	}
	if !s.IsAuthenticated() {
		return DecisionRedirect
	}

	switch req {
	case RequireAdmin:
		if !s.IsAdmin() {
			return DecisionRedirect
		}
	case RequireStaff:
		if !s.IsStaff() {
			return DecisionRedirect
		}
	}
	return DecisionRender
}

// Source is the part of session.Store a guard watches.
type Source interface {
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) (cancel func())
}

// Guard keeps a decision current for one protected view. Every session change
// is re-evaluated; entering Redirect navigates to login once per transition.
type Guard struct {
	src Source
	req Requirement
	nav session.Navigator

	mu       sync.Mutex
	decision Decision
	unsub    func()
}

func New(src Source, req Requirement, nav session.Navigator) *Guard {
	g := &Guard{src: src, req: req, nav: nav, decision: DecisionWait}
	g.unsub = src.Subscribe(g.update)
	g.update(src.Snapshot())
	return g
}

func (g *Guard) update(s session.Snapshot) {
	d := Evaluate(s, g.req)

	g.mu.Lock()
	prev := g.decision
	g.decision = d
	g.mu.Unlock()

	if d == DecisionRedirect && prev != DecisionRedirect {
		g.nav.NavigateToLogin()
	}
}

func (g *Guard) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// Render runs view only when the decision is Render.
func (g *Guard) Render(view func() error) error {
	switch g.Decision() {
	case DecisionWait:
		return ErrWaiting
	case DecisionRedirect:
		return ErrRedirected
	}
	return view()
}

// Close stops watching the session.
func (g *Guard) Close() {
	g.unsub()
}
