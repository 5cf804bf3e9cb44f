package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/subredirect/internal/adapter/metrics"
	"github.com/pscheid92/subredirect/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus"
)

// --- Mock implementations ---

type mockRewriter struct {
	configURLFn func(ctx context.Context, host string) (string, error)
	publishFn   func(ctx context.Context, token, value string) error
	rewriteFn   func(ctx context.Context, escapedPath, rawQuery, host string) (*url.URL, error)
}

func (m *mockRewriter) ConfigURL(ctx context.Context, host string) (string, error) {
	if m.configURLFn != nil {
		return m.configURLFn(ctx, host)
	}
	return "", errors.New("not implemented")
}

func (m *mockRewriter) Publish(ctx context.Context, token, value string) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, token, value)
	}
	return nil
}

func (m *mockRewriter) Rewrite(ctx context.Context, escapedPath, rawQuery, host string) (*url.URL, error) {
	if m.rewriteFn != nil {
		return m.rewriteFn(ctx, escapedPath, rawQuery, host)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

var testStartTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, rw rewriter, opts ...func(*Server)) *Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	clock := clockwork.NewFakeClockAt(testStartTime)

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:             "0",
			Token:            "test-token",
			PublishRateLimit: 100,
			PublishRateBurst: 100,
		},
		rewriter:       rw,
		httpMetrics:    metrics.NewHTTPMetrics(reg),
		commitMetrics:  metrics.NewCommitMetrics(reg),
		metricsHandler: metrics.Handler(reg),
		clock:          clock,
		startTime:      testStartTime,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.echo.HTTPErrorHandler = srv.httpErrorHandler
	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withPublishRate(ratePerSecond float64, burst int) func(*Server) {
	return func(s *Server) {
		s.config.PublishRateLimit = ratePerSecond
		s.config.PublishRateBurst = burst
	}
}

// serve runs a request through the full middleware chain.
func serve(srv *Server, method, target string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, fn := range setup {
		fn(req)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func withHost(host string) func(*http.Request) {
	return func(r *http.Request) {
		r.Host = host
	}
}
