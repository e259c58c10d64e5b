// Package session owns the client's authentication state: the current user,
// the bearer token and the refresh token, their durable copy, and the
// expiration watchdog.
//
// A Store is created explicitly and handed to whatever needs it (the API
// client, route guards, the shell, the web console). It moves through
// Loading -> {Unauthenticated, Authenticated}; an authenticated session goes
// back to Unauthenticated on logout, on expiry, or on a 401 from the API.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/client/storage"
	"github.com/dmitrijs2005/furnistore/internal/client/token"
	"github.com/dmitrijs2005/furnistore/internal/client/watchdog"
	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/dmitrijs2005/furnistore/internal/logging"
)

// Options configures a Store. Storage and Auth are required.
type Options struct {
	Storage   storage.Storage
	Auth      Authenticator
	Notifier  Notifier
	Navigator Navigator
	Clock     watchdog.Clock
	Log       logging.Logger

	// CheckInterval is the watchdog period; zero means watchdog.DefaultInterval.
	CheckInterval time.Duration
}

type Store struct {
	storage   storage.Storage
	auth      Authenticator
	notifier  Notifier
	navigator Navigator
	clock     watchdog.Clock
	log       logging.Logger
	wd        *watchdog.Watchdog

	// background outlives individual calls; the watchdog runs under it.
	background context.Context
	cancel     context.CancelFunc

	initOnce sync.Once

	mu      sync.RWMutex
	state   State
	user    *models.User
	token   string
	refresh string

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New returns a Store in StateLoading. Call Initialize to restore a persisted
// session.
func New(opts Options) *Store {
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Navigator == nil {
		opts.Navigator = nopNavigator{}
	}
	if opts.Clock == nil {
		opts.Clock = watchdog.RealClock()
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		storage:    opts.Storage,
		auth:       opts.Auth,
		notifier:   opts.Notifier,
		navigator:  opts.Navigator,
		clock:      opts.Clock,
		log:        opts.Log.With("component", "session"),
		background: ctx,
		cancel:     cancel,
		state:      StateLoading,
		subs:       make(map[int]func(Snapshot)),
	}

	s.wd = watchdog.New(watchdog.Config{
		Interval: opts.CheckInterval,
		Clock:    opts.Clock,
		Log:      s.log,
		Tokens:   s.currentToken,
		Active:   func() bool { return s.Snapshot().State == StateAuthenticated },
		OnMissing: func(ctx context.Context) {
			s.Logout(ctx, false)
		},
		OnExpired: func(ctx context.Context, _ token.Status) {
			s.Logout(ctx, true)
		},
	})
	return s
}

// Initialize restores the persisted session, if any. It runs once; later
// calls return immediately. An expired, undecodable or incomplete record is
// purged without telling the user.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() { s.initialize(ctx) })
}

func (s *Store) initialize(ctx context.Context) {
	rec, err := s.loadRecord(ctx)
	if err != nil {
		s.log.Warn(ctx, "stored session unreadable", "error", err)
		s.purge(ctx)
		s.settle(StateUnauthenticated, nil, "", "")
		return
	}

	if rec.token == "" {
		if rec.user != nil || rec.refresh != "" {
			s.purge(ctx)
		}
		s.settle(StateUnauthenticated, nil, "", "")
		return
	}

	status := token.CheckExpiry(rec.token, s.clock.Now())
	if !status.Usable() || rec.user == nil {
		s.log.Info(ctx, "discarding stored session", "token_status", status.String(), "has_user", rec.user != nil)
		s.purge(ctx)
		s.settle(StateUnauthenticated, nil, "", "")
		return
	}

	s.settle(StateAuthenticated, rec.user, rec.token, rec.refresh)
	s.wd.Start(s.background)
	s.log.Info(ctx, "session restored", "user", rec.user.Username, "role", rec.user.Role)
}

// Login exchanges credentials with the API. On success the new session is
// persisted, adopted and watched. On any failure ErrLoginFailed is returned
// and the previous session, in memory and on disk, is left as it was.
//
// Concurrent logins are not serialised; the last one to finish wins.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.Initialize(ctx)

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.log.Info(ctx, "login rejected", "user", username, "error", err)
		s.notifier.Error(MsgLoginFailed)
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	user := res.User
	if err := s.persist(ctx, res.Access, &user, res.Refresh); err != nil {
		s.log.Error(ctx, "persist session", "error", err)
		s.notifier.Error(MsgLoginFailed)
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	s.settle(StateAuthenticated, &user, res.Access, res.Refresh)
	s.wd.Start(s.background)

	if exp, ok := token.Expiry(res.Access); ok {
		s.log.Info(ctx, "login succeeded", "user", user.Username, "role", user.Role, "expires_at", exp)
	} else {
		s.log.Info(ctx, "login succeeded", "user", user.Username, "role", user.Role)
	}
	return nil
}

// Logout clears the session in memory and on disk and stops the watchdog.
// With showMessage, used for expiry and 401s, the user is told the session
// expired and sent to the login entry point. Calling Logout on a closed
// session changes nothing and shows nothing.
func (s *Store) Logout(ctx context.Context, showMessage bool) {
	s.Initialize(ctx)
	s.wd.Stop()

	s.mu.Lock()
	wasAuthenticated := s.state == StateAuthenticated
	s.state = StateUnauthenticated
	s.user = nil
	s.token = ""
	s.refresh = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.purge(ctx)

	if !wasAuthenticated {
		return
	}

	s.log.Info(ctx, "session closed", "forced", showMessage)
	s.publish(snap)

	if showMessage {
		s.notifier.Info(MsgSessionExpired)
		s.navigator.NavigateToLogin()
	}
}

// HandleUnauthorized is the shared reaction to a 401 from any API call: drop
// any loading indicator, then force a logout with the expiry notice.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	s.notifier.DismissLoading()
	s.Logout(ctx, true)
}

// CheckStatus lets feature code hand over a response status before running
// its own error path. It returns true when the status was a 401 and the
// session has been closed.
func (s *Store) CheckStatus(ctx context.Context, status int) bool {
	if status != http.StatusUnauthorized {
		return false
	}
	s.HandleUnauthorized(ctx)
	return true
}

// Verify runs one watchdog check synchronously.
func (s *Store) Verify(ctx context.Context) token.Status {
	return s.wd.Check(ctx)
}

// WatchdogRunning reports whether the expiration watchdog is active.
func (s *Store) WatchdogRunning() bool {
	return s.wd.Running()
}

// Token returns the in-memory bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken returns the stored refresh token. It is kept but never
// exchanged: an expired access token always ends the session.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, HasToken: s.token != ""}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Subscribe registers fn to receive a Snapshot after every state change. fn
// runs on the goroutine that caused the change and must not block. The
// returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) publish(snap Snapshot) {
	s.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// settle replaces the whole session in one step so user and token are always
// set or cleared together.
func (s *Store) settle(state State, user *models.User, tok, refresh string) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.token = tok
	s.refresh = refresh
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Close stops the watchdog for process teardown.
func (s *Store) Close() {
	s.wd.Stop()
	s.cancel()
}

// currentToken prefers memory and falls back to durable storage.
func (s *Store) currentToken(ctx context.Context) string {
	if t := s.Token(); t != "" {
		return t
	}
	v, err := s.storage.Get(ctx, common.StorageKeyToken)
	if err != nil {
		s.log.Warn(ctx, "read stored token", "error", err)
		return ""
	}
	return string(v)
}

type record struct {
	token   string
	user    *models.User
	refresh string
}

func (s *Store) loadRecord(ctx context.Context) (record, error) {
	var rec record

	tok, err := s.storage.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return rec, err
	}
	rec.token = string(tok)

	refresh, err := s.storage.Get(ctx, common.StorageKeyRefresh)
	if err != nil {
		return rec, err
	}
	rec.refresh = string(refresh)

	rawUser, err := s.storage.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return rec, err
	}
	if len(rawUser) > 0 {
		var u models.User
		if err := json.Unmarshal(rawUser, &u); err != nil {
			s.log.Warn(ctx, "stored user record is corrupt", "error", err)
			return rec, nil
		}
		rec.user = &u
	}
	return rec, nil
}

func (s *Store) persist(ctx context.Context, tok string, user *models.User, refresh string) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	values := map[string][]byte{
		common.StorageKeyToken: []byte(tok),
		common.StorageKeyUser:  rawUser,
	}
	var drop []string
	if refresh != "" {
		values[common.StorageKeyRefresh] = []byte(refresh)
	} else {
		drop = append(drop, common.StorageKeyRefresh)
	}
	return s.storage.Replace(ctx, values, drop...)
}

func (s *Store) purge(ctx context.Context) {
	err := s.storage.Delete(ctx, common.StorageKeyToken, common.StorageKeyUser, common.StorageKeyRefresh)
	if err != nil {
		s.log.Error(ctx, "purge stored session", "error", err)
	}
}
