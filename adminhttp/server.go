// Package adminhttp is the operational side-channel for an MCP server or
// host: health checks, Prometheus metrics, and Swagger-documented session
// introspection. It registers no websocket endpoint of its own; a host can
// mount one on Router(). It never touches the MCP wire
// protocol itself — that lives entirely in package mcp and package
// transport — it only observes and exposes it.
package adminhttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/ruaan-deysel/go-mcp-sdk/docs"
	"github.com/ruaan-deysel/go-mcp-sdk/logger"
	"github.com/ruaan-deysel/go-mcp-sdk/mcp"
)

// SessionSource supplies the count of currently tracked sessions for the
// /api/v1/sessions introspection endpoint. *mcp.Group implements it.
type SessionSource interface {
	Len() int
}

// Options configures a Server.
type Options struct {
	CORSOrigin string
	Sessions   SessionSource
	Metrics    *PrometheusMetrics
}

// Server is the admin HTTP surface: health, metrics, swagger, and a session
// count. It has no websocket upgrade endpoint.
type Server struct {
	log        *logger.Logger
	router     *mux.Router
	httpServer *http.Server
	sessions   SessionSource
}

// NewServer builds the router. Call ListenAndServe to start serving.
func NewServer(opts Options) *Server {
	s := &Server{
		log:      logger.Named("adminhttp"),
		router:   mux.NewRouter(),
		sessions: opts.Sessions,
	}
	s.setupRoutes(opts.CORSOrigin)
	return s
}

func (s *Server) setupRoutes(corsOrigin string) {
	s.router.Use(corsMiddleware(corsOrigin))
	s.router.Use(loggingMiddleware(s.log))
	s.router.Use(recoveryMiddleware(s.log))

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{EnableOpenMetrics: true})).Methods(http.MethodGet)

	s.router.PathPrefix("/swagger/doc.json").HandlerFunc(handleSwaggerDoc)
	s.router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sessions", s.handleSessions).Methods(http.MethodGet)
}

// handleHealthz reports liveness.
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get]
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleSessions reports how many sessions this process currently tracks.
//
//	@Summary	List active sessions
//	@Tags		Sessions
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Router		/api/v1/sessions [get]
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	count := 0
	if s.sessions != nil {
		count = s.sessions.Len()
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"active_sessions":%d}`, count)
}

// Router returns the underlying router for mounting additional handlers,
// such as a transport/httptransport.Transport or a wstransport.Upgrade
// endpoint.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ListenAndServe starts the HTTP server on addr and blocks until it exits.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.log.Info("admin HTTP listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

var _ SessionSource = (*mcp.Group)(nil)
