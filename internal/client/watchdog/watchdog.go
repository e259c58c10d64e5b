// Package watchdog periodically re-checks the session token and reports when
// it has expired or disappeared.
package watchdog

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/client/token"
	"github.com/dmitrijs2005/furnistore/internal/logging"
)

// DefaultInterval is the period between two checks.
const DefaultInterval = 30 * time.Second

// Config wires the watchdog to its owner. Tokens, OnMissing and OnExpired are
// required.
type Config struct {
	Interval time.Duration
	Clock    Clock
	Log      logging.Logger

	// Tokens returns the current token, in memory first then durable storage.
	Tokens func(ctx context.Context) string
	// Active reports whether a session is currently considered open.
	Active func() bool
	// OnMissing is called when there is no token but a session is active.
	OnMissing func(ctx context.Context)
	// OnExpired is called for an expired or undecodable token.
	OnExpired func(ctx context.Context, status token.Status)
}

// Watchdog runs at most one check loop at a time.
type Watchdog struct {
	cfg Config

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	// gen numbers loops; a check may only act for the newest one.
	gen uint64
}

func New(cfg Config) *Watchdog {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Log == nil {
		cfg.Log = logging.Discard()
	}
	if cfg.Active == nil {
		cfg.Active = func() bool { return false }
	}
	return &Watchdog{cfg: cfg}
}

// Start cancels any running loop and begins a new one: one check right away,
// then one per interval until Stop or until ctx is done.
func (w *Watchdog) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.gen++

	ticker := w.cfg.Clock.NewTicker(w.cfg.Interval)
	go w.run(loopCtx, ticker, done, w.gen)
}

// Stop cancels the running loop, if any. It does not wait for the loop to
// exit, so it is safe to call from inside OnExpired/OnMissing. A check still
// in flight in a cancelled loop finishes without calling either callback.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *Watchdog) stopLocked() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.cancel = nil
	w.done = nil
}

// Running reports whether a loop is active.
func (w *Watchdog) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// Done returns a channel closed when the current loop exits, or nil when
// nothing is running.
func (w *Watchdog) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Watchdog) run(ctx context.Context, ticker Ticker, done chan struct{}, gen uint64) {
	defer close(done)
	defer ticker.Stop()

	if ctx.Err() != nil {
		return
	}
	w.check(ctx, gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			w.check(ctx, gen)
		}
	}
}

// Check performs a single validation pass and returns the token status it
// observed. A missing token reports StatusInvalid.
func (w *Watchdog) Check(ctx context.Context) token.Status {
	return w.check(ctx, 0)
}

func (w *Watchdog) check(ctx context.Context, gen uint64) token.Status {
	raw := w.cfg.Tokens(ctx)
	if raw == "" {
		if w.cfg.Active() && w.current(ctx, gen) {
			w.cfg.Log.Info(ctx, "session token disappeared, closing session")
			w.cfg.OnMissing(ctx)
		}
		return token.StatusInvalid
	}

	status := token.CheckExpiry(raw, w.cfg.Clock.Now())
	if !status.Usable() && w.current(ctx, gen) {
		w.cfg.Log.Info(ctx, "session token no longer usable", "status", status.String())
		w.cfg.OnExpired(ctx, status)
	}
	return status
}

// current reports whether a check may still act. gen 0 is a one-off Check
// outside any loop.
func (w *Watchdog) current(ctx context.Context, gen uint64) bool {
	if ctx.Err() != nil {
		return false
	}
	if gen == 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen == gen && w.cancel != nil
}
