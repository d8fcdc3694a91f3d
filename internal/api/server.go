// Package api exposes the local capture HTTP interface: fragment ingestion,
// manual record saves, the pending queue, and status.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/example/pucsync/internal/ingest"
)

// Server is the local HTTP server accepting captured fragments and manual
// save requests.
type Server struct {
	addr        string
	http        *http.Server
	coordinator *ingest.Coordinator
}

// NewServer creates a Server bound to addr over the given coordinator.
func NewServer(addr string, coordinator *ingest.Coordinator) *Server {
	s := &Server{
		addr:        addr,
		coordinator: coordinator,
	}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start begins listening for HTTP requests (non-blocking).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()
	slog.Info("api listening", "addr", ln.Addr().String())
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /v1/fragments", s.handleIngestFragment)
	mux.HandleFunc("POST /v1/records", s.handleSaveRecord)
	mux.HandleFunc("POST /v1/records/pending", s.handleSavePending)
	mux.HandleFunc("GET /v1/records/pending", s.handleListPending)
	mux.HandleFunc("POST /v1/records/pending/{vehicle}/complete", s.handleCompletePending)
	mux.HandleFunc("GET /v1/records/latest", s.handleLatest)
	mux.HandleFunc("GET /v1/status", s.handleStatus)

	var h http.Handler = mux
	h = loggingMiddleware(h)
	h = recoveryMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}
