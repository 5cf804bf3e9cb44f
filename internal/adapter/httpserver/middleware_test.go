package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/subredirect/internal/platform/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBoundary(t *testing.T, srv *Server, handlerErr error) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/example.com", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	handler := srv.ErrorHandlingMiddleware()(func(echo.Context) error {
		return handlerErr
	})

	require.NoError(t, handler(c))
	return rec
}

func TestErrorHandlingMiddleware_ErrorTypes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{"validation", apperrors.ValidationError("invalid URL"), http.StatusBadRequest, "invalid URL", "validation"},
		{"unauthorized", apperrors.UnauthorizedError("Unauthorized"), http.StatusUnauthorized, "Unauthorized", "unauthorized"},
		{"not found", apperrors.NotFoundError("Not Found"), http.StatusNotFound, "Not Found", "not_found"},
		{"internal", apperrors.InternalError("failed", errors.New("disk full")), http.StatusInternalServerError, "disk full", "internal"},
		{"external", apperrors.ExternalError("commit lookup failed", errors.New("401 Unauthorized")), http.StatusInternalServerError, "401 Unauthorized", "external"},
		{"wrapped", fmt.Errorf("outer: %w", apperrors.ValidationError("bad host")), http.StatusBadRequest, "bad host", "validation"},
		{"plain error", errors.New("standard error"), http.StatusInternalServerError, "standard error", "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &mockRewriter{})

			rec := runBoundary(t, srv, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")
			assert.Equal(t, 1.0, testutil.ToFloat64(srv.httpMetrics.ErrorsTotal.WithLabelValues(tt.wantType)))
		})
	}
}

func TestErrorHandlingMiddleware_NoError(t *testing.T) {
	srv := newTestServer(t, &mockRewriter{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	handler := srv.ErrorHandlingMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestErrorHandlingMiddleware_PassesHTTPError(t *testing.T) {
	srv := newTestServer(t, &mockRewriter{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := srv.echo.NewContext(req, httptest.NewRecorder())

	handler := srv.ErrorHandlingMiddleware()(func(echo.Context) error {
		return echo.ErrMethodNotAllowed
	})

	err := handler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusMethodNotAllowed, httpErr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.httpMetrics.ErrorsTotal.WithLabelValues("http")))
}

func TestHTTPErrorHandler_PlainText(t *testing.T) {
	srv := newTestServer(t, &mockRewriter{})

	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"http error with message", http.MethodGet, echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"http error without string message", http.MethodGet, echo.NewHTTPError(http.StatusNotFound), http.StatusNotFound, "Not Found"},
		{"plain error", http.MethodGet, errors.New("boom"), http.StatusInternalServerError, "boom"},
		{"head request", http.MethodHead, echo.ErrNotFound, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			rec := httptest.NewRecorder()
			c := srv.echo.NewContext(req, rec)

			srv.httpErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRedactURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"publish token masked", "/sha?token=secret&value=abc", "/sha?token=REDACTED&value=abc"},
		{"publish without token", "/sha?value=abc", "/sha?value=abc"},
		{"rewrite query dropped", "/example.com/api?token=sub-secret", "/example.com/api?REDACTED"},
		{"no query", "/config", "/config"},
		{"unparseable kept", "not a uri", "not a uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactURI(tt.uri))
		})
	}
}

func TestLogError_IncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := newTestServer(t, &mockRewriter{})
	req := httptest.NewRequest(http.MethodGet, "/foo.bar?token=secret", nil)
	c := srv.echo.NewContext(req, httptest.NewRecorder())

	logError(c, apperrors.ValidationError("invalid host").WithContext("host", "foo.bar"))

	assert.Contains(t, buf.String(), `"msg":"Validation error"`)
	assert.Contains(t, buf.String(), `"host":"foo.bar"`)
	assert.Contains(t, buf.String(), `"path":"/foo.bar"`)
	assert.NotContains(t, buf.String(), "secret")
}
