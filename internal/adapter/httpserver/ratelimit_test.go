package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRemoteAddr = "1.2.3.4:1234"

func limitedRequest(t *testing.T, e *echo.Echo, handler echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/sha?token=x&value=y", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func TestRateLimiterAllowsRequestsUnderLimit(t *testing.T) {
	e := echo.New()
	handler := newRateLimiter(10, 3)(okHandler)

	for range 3 {
		rec := limitedRequest(t, e, handler, testRemoteAddr)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterBlocksExcessiveRequests(t *testing.T) {
	e := echo.New()
	handler := newRateLimiter(0.01, 1)(okHandler)

	rec := limitedRequest(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = limitedRequest(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", rec.Body.String())
}

func TestRateLimiterDifferentIPsAreIndependent(t *testing.T) {
	e := echo.New()
	handler := newRateLimiter(0.01, 1)(okHandler)

	rec := limitedRequest(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusOK, rec.Code)

	// second client keeps its own burst
	rec = limitedRequest(t, e, handler, "5.6.7.8:5678")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = limitedRequest(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
