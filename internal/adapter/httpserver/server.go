package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logicmart/analytics/internal/core/port"
	"github.com/logicmart/analytics/internal/core/service"
)

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr         string
	CORSOrigin         string
	ReadHeaderTimeout  time.Duration
	IdleTimeout        time.Duration
	RateLimitPerMinute float64
}

// Deps bundles everything the route handlers reach into. The analytics
// catalog arrives as ports so tests can swap in fakes without a database.
type Deps struct {
	Auth      *service.AuthService
	Manager   port.ManagerAnalytics
	Sales     port.SalesAnalytics
	Inventory port.InventoryAnalytics
	Explorer  port.SchemaExplorer
	Reports   *service.ReportService
	XLSX      port.ReportWriter
	PDF       port.ReportWriter
	Audit     port.AuditLogger
	AuditLog  port.AuditRepository
}

// Server wraps the HTTP server with chi routing, middleware, and graceful shutdown.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     *slog.Logger
	cfg        Config
	deps       Deps
	limiter    *ipRateLimiter
}

// New creates a new Server wired with the given dependencies.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		logger: logger,
		cfg:    cfg,
		deps:   deps,
	}

	if cfg.RateLimitPerMinute > 0 {
		s.limiter = newIPRateLimiter(cfg.RateLimitPerMinute)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return s
}

// ListenAndServe starts the HTTP server and blocks until it stops.
// Returns nil if the server was shut down gracefully via Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
