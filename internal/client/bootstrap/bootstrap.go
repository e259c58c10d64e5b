// Package bootstrap wires the client stack shared by the shell and the web
// console: local storage, the API client and the session store.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/furnistore/internal/client/api"
	"github.com/dmitrijs2005/furnistore/internal/client/config"
	"github.com/dmitrijs2005/furnistore/internal/client/session"
	"github.com/dmitrijs2005/furnistore/internal/client/storage"
	"github.com/dmitrijs2005/furnistore/internal/client/watchdog"
	"github.com/dmitrijs2005/furnistore/internal/logging"
)

// UI is how a front end shows session notices and handles redirects to login.
type UI interface {
	session.Notifier
	session.Navigator
}

type Runtime struct {
	Config  *config.Config
	Log     logging.Logger
	Storage *storage.SQLiteStorage
	API     *api.Client
	Session *session.Store

	db *sql.DB
}

// Options lets tests swap the HTTP client and the clock.
type Options struct {
	HTTPClient *http.Client
	Clock      watchdog.Clock
}

// Open builds the runtime. The session is created but not initialised; the
// caller decides when to restore it.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger, ui UI, opts Options) (*Runtime, error) {
	if log == nil {
		log = logging.Discard()
	}

	if cfg.StoragePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	st, db, err := storage.Open(ctx, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open local storage %s: %w", cfg.StoragePath, err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout}
	}

	client, err := api.New(cfg.APIBaseURL,
		api.NewHeaderBuilder(st, log),
		api.WithHTTPClient(hc),
		api.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.New(session.Options{
		Storage:       st,
		Auth:          client,
		Notifier:      ui,
		Navigator:     ui,
		Clock:         opts.Clock,
		Log:           log,
		CheckInterval: cfg.CheckInterval,
	})
	client.UseSession(store, store.HandleUnauthorized)

	log.Debug(ctx, "client runtime ready", "api", cfg.APIBaseURL, "storage", cfg.StoragePath)

	return &Runtime{
		Config:  cfg,
		Log:     log,
		Storage: st,
		API:     client,
		Session: store,
		db:      db,
	}, nil
}

// Close stops the watchdog and closes the local database.
func (r *Runtime) Close() error {
	r.Session.Close()
	return r.db.Close()
}
