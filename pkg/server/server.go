package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/statesync/pkg/render"
)

// MountFunc builds the component for a session.
type MountFunc func(s *Session) Component

// Server serves a mounted component as an SSR page and over live sessions.
type Server struct {
	config *Config
	mount  MountFunc
	logger *slog.Logger

	router   chi.Router
	upgrader websocket.Upgrader

	mu         sync.Mutex
	sessions   map[string]*Session
	httpServer *http.Server
}

// New creates a Server. config may be nil; zero fields take defaults.
func New(config *Config, mount MountFunc) *Server {
	if mount == nil {
		panic("server: New called with nil mount")
	}
	config = config.withDefaults()

	s := &Server{
		config:   config,
		mount:    mount,
		logger:   config.Logger.With("component", "server"),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get(config.LivePath, s.handleLive)
	r.Get("/healthz", s.handleHealth)
	if config.MetricsPath != "" {
		r.Handle(config.MetricsPath, promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	}
	s.router = r

	return s
}

// Handler returns the server's routes for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionCount returns the number of open live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := newSession(nil, s.config)
	defer func() {
		sess.Close()
		sess.owner.Dispose()
	}()
	sess.component = s.mount(sess)

	body, err := sess.render()
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, render.PageData{
		Title:    s.config.Title,
		Body:     body,
		LivePath: s.config.LivePath,
	}); err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.config)
	sess.component = s.mount(sess)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session started", "session_id", sess.ID)
	sess.Start()

	go func() {
		<-sess.Done()
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
		s.logger.Info("session ended", "session_id", sess.ID)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ListenAndServe serves on config.Addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes every live session and stops the HTTP server if it is
// running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}

	if httpServer == nil {
		return nil
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
