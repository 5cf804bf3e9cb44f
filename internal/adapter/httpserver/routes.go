package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/subredirect/internal/platform/correlation"
)

// opsPrefix namespaces the operational routes. "-" is never a valid target host, so
// these paths cannot collide with a rewrite.
const opsPrefix = "/-"

func (s *Server) registerRoutes() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    correlation.NewID,
		TargetHeader: correlation.Header,
	}))
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(s.httpMetrics.Middleware())
	s.echo.Use(s.ErrorHandlingMiddleware())
	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableErrorHandler: true,
	}))

	s.registerHealthRoutes()
	s.echo.GET(opsPrefix+"/metrics", echo.WrapHandler(s.metricsHandler))

	publishLimiter := newRateLimiter(s.config.PublishRateLimit, s.config.PublishRateBurst)

	s.echo.Any("/", s.handleRoot)
	s.echo.Any("/config", s.handleConfig)
	s.echo.Any("/sha", s.handlePublish, publishLimiter)
	s.echo.Any("/*", s.handleRewrite)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogHost:    true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"host", v.Host,
				"uri", redactURI(v.URI),
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
