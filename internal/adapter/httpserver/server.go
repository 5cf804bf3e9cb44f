package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/subredirect/internal/adapter/metrics"
	"github.com/pscheid92/subredirect/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus"
)

type rewriter interface {
	ConfigURL(ctx context.Context, host string) (string, error)
	Publish(ctx context.Context, token, value string) error
	Rewrite(ctx context.Context, escapedPath, rawQuery, host string) (*url.URL, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	rewriter rewriter

	httpMetrics    *metrics.HTTPMetrics
	commitMetrics  *metrics.CommitMetrics
	metricsHandler http.Handler

	healthChecks []HealthCheck
	clock        clockwork.Clock
	startTime    time.Time
}

func NewServer(cfg *config.Config, rw rewriter, reg *prometheus.Registry, commitMetrics *metrics.CommitMetrics, clock clockwork.Clock, healthChecks []HealthCheck) (*Server, error) {
	if rw == nil {
		return nil, fmt.Errorf("rewriter is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		rewriter:       rw,
		httpMetrics:    metrics.NewHTTPMetrics(reg),
		commitMetrics:  commitMetrics,
		metricsHandler: metrics.Handler(reg),
		healthChecks:   healthChecks,
		clock:          clock,
		startTime:      clock.Now(),
	}

	e.HTTPErrorHandler = srv.httpErrorHandler
	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the full middleware chain, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
