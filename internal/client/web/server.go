// Package web serves the localhost back-office console. It shares one
// session with the API client; admin routes are protected by role guards.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/furnistore/internal/client/bootstrap"
	"github.com/dmitrijs2005/furnistore/internal/client/guard"
	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/dmitrijs2005/furnistore/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	rt      *bootstrap.Runtime
	notices *Notices
	log     logging.Logger
	engine  *gin.Engine
}

func New(rt *bootstrap.Runtime, notices *Notices, log logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		rt:      rt,
		notices: notices,
		log:     log.With("component", "web"),
		engine:  gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), RequestID(), Logger(s.log))

	r.GET("/healthz", s.health)
	r.GET(common.LoginPath, s.loginPage)
	r.POST(common.LoginPath, s.login)
	r.POST("/logout", s.logout)
	r.GET("/session", s.sessionInfo)

	store := s.rt.Session
	admin := r.Group("/admin")
	admin.GET("/products", guard.Middleware(store, guard.RequireStaff), s.listProducts)
	admin.GET("/orders", guard.Middleware(store, guard.RequireStaff), s.listOrders)
	admin.POST("/categories", guard.Middleware(store, guard.RequireStaff), s.createCategory)
	admin.GET("/users", guard.Middleware(store, guard.RequireAdmin), s.listUsers)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "console listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return <-errCh
}
