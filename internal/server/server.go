// Package server exposes the HTTP surface of the bot: the platform webhook
// endpoint and a liveness endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
)

const shutdownTimeout = 10 * time.Second

// Pinger checks a backing resource for the liveness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server instance.
type Server struct {
	listen      string
	webhookPath string
	webhook     http.Handler
	store       Pinger
	log         *slog.Logger

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance wiring the webhook handler and the
// liveness check.
func New(listen, webhookPath string, webhook http.Handler, store Pinger, log *slog.Logger) *Server {
	s := &Server{
		listen:      listen,
		webhookPath: webhookPath,
		webhook:     webhook,
		store:       store,
		log:         log.With("component", "http_server"),
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the configured root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and handles graceful shutdown on context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Starting HTTP server", "listen", s.listen, "webhook_path", s.webhookPath)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:        s.listen,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: webhook deliveries block on the generation call.
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		s.log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("HTTP server shutdown error", "error", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("mirrormind", "mirrormind", "1"))
	s.router.Use(rest.Ping)
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB, webhook payloads are small
}

// setupRoutes wires the webhook delivery endpoint and the liveness endpoint.
func (s *Server) setupRoutes() {
	s.router.Handle("POST "+s.webhookPath, s.webhook)
	s.router.HandleFunc("GET /health", s.healthHandler)
	s.router.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("MirrorMind Bot Running"))
	})
}

// healthHandler reports liveness, including a database ping.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if err := s.store.Ping(r.Context()); err != nil {
		s.log.ErrorContext(r.Context(), "Health check database ping failed", "error", err)
		status = "database unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
