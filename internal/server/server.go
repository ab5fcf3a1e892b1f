// Package server exposes the assistant over HTTP: the chat endpoint, its websocket
// variant and the health report.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sportrium/assistant/internal/llm"
	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
	"github.com/sportrium/assistant/internal/session"
)

// Replier produces one assistant reply for a transcript.
type Replier interface {
	Reply(ctx context.Context, sessionID string, transcript []models.Turn) (reply, provenance string)
}

// Info is the static part of the health report.
type Info struct {
	Service       string
	Provider      string
	Models        map[string]string
	Keys          map[string]bool
	APITimeout    time.Duration
	LLMTimeout    time.Duration
	PublicAPIBase string
}

// Server wraps the HTTP server with its dependencies and lifecycle management.
type Server struct {
	assistant Replier
	info      Info
	fallback  *llm.Fallback
	sessions  *session.Store
	metrics   *metrics.Collector
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithFallback lets the health report show the provider breakers.
func WithFallback(f *llm.Fallback) Option { return func(s *Server) { s.fallback = f } }

// WithSessions lets the health report show the live session count.
func WithSessions(st *session.Store) Option { return func(s *Server) { s.sessions = st } }

// WithMetrics attaches the runtime metrics shown by the health report.
func WithMetrics(m *metrics.Collector) Option { return func(s *Server) { s.metrics = m } }

// New creates a server answering with a.
func New(a Replier, info Info, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if info.Service == "" {
		info.Service = "sportrium-assistant"
	}
	s := &Server{
		assistant: a,
		info:      info,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/ws", s.handleChatWS)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return RequestID(LoggingMiddleware(s.logger)(mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr, "provider", s.info.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
