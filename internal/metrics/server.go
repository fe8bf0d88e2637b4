package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves Prometheus metrics on a plain HTTP endpoint. Disabled by
// default; the control plane's own auth/ACL Non-goals apply here too, so
// this endpoint carries no access control of its own.
type Server struct {
	addr   string
	path   string
	server *http.Server
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewServer builds a metrics server bound to addr (host:port), serving on
// path (default "/metrics").
func NewServer(addr, path string, log *slog.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}
	return &Server{addr: addr, path: path, logger: log}
}

// Start begins serving in the background. It returns once the listener is
// bound; serve errors after that point are logged, not returned.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Info("metrics server listening", "addr", s.addr, "path", s.path)

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
