// Package server wires the relay pipeline behind an HTTP surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/translay/translay/internal/observability"
	"github.com/translay/translay/internal/server/handlers"
	servermw "github.com/translay/translay/internal/server/middleware"
)

// Server is the HTTP front of the relay.
type Server struct {
	router *chi.Mux
	server *http.Server
	host   string
	port   int

	translator handlers.Translator
	health     *handlers.HealthManager
}

// New builds the router with the full middleware chain. The translator and
// health manager are the only injected collaborators; everything else is
// self-contained.
func New(host string, port int, translator handlers.Translator, health *handlers.HealthManager) *Server {
	r := chi.NewRouter()

	// RealIP must run before anything that reads RemoteAddr, so the
	// translator sees the true client behind the edge.
	r.Use(chimiddleware.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		servermw.WriteErrorEnvelope(w, req, http.StatusNotFound,
			"NOT_FOUND", "the requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		servermw.WriteErrorEnvelope(w, req, http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED", "the requested method is not allowed for this resource")
	})

	s := &Server{
		router:     r,
		host:       host,
		port:       port,
		translator: translator,
		health:     health,
	}
	s.registerRoutes()

	return s
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("starting http server",
			zap.String("addr", addr))
	}

	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("shutting down http server")
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
