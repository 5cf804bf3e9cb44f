package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/subredirect/internal/platform/errors"
)

func (s *Server) handleRoot(c echo.Context) error {
	return apperrors.NotFoundError("Not Found")
}

func (s *Server) handleConfig(c echo.Context) error {
	location, err := s.rewriter.ConfigURL(c.Request().Context(), c.Request().Host)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, location)
}

func (s *Server) handlePublish(c echo.Context) error {
	err := s.rewriter.Publish(c.Request().Context(), c.QueryParam("token"), c.QueryParam("value"))
	s.recordPublish(err)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleRewrite(c echo.Context) error {
	req := c.Request()
	target, err := s.rewriter.Rewrite(req.Context(), req.URL.EscapedPath(), req.URL.RawQuery, req.Host)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, target.String())
}

func (s *Server) recordPublish(err error) {
	if s.commitMetrics == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = string(apperrors.TypeInternal)
		var structuredErr *apperrors.Error
		if errors.As(err, &structuredErr) {
			result = string(structuredErr.Type)
		}
	}
	s.commitMetrics.Publishes.WithLabelValues(result).Inc()
}
