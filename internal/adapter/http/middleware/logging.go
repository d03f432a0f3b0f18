package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
)

// loggerKey is the context key for the request-scoped logger.
const loggerKey = "logger"

// RequestLogger returns middleware that logs HTTP requests.
// It stores a logger tagged with the request ID in the context for handlers (see LoggerFrom)
// and logs on request completion with method, route, status, duration, and client info.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Request ID is set by the RequestID middleware, which runs first
			reqLog := log.WithRequestID(GetRequestID(c))
			c.Set(loggerKey, reqLog)

			err := next(c)
			if err != nil {
				// Let Echo's error handler write the response before we read the status
				c.Error(err)
			}

			duration := time.Since(start)
			req := c.Request()
			res := c.Response()

			var event *zerolog.Event
			status := res.Status
			switch {
			case status >= 500:
				event = reqLog.Error()
			case status >= 400:
				event = reqLog.Warn()
			default:
				event = reqLog.Info()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", duration.Milliseconds()).
				Int64("bytes_in", req.ContentLength).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			// Already handled via c.Error()
			return nil
		}
	}
}

// LoggerFrom returns the request-scoped logger, or a no-op logger when RequestLogger
// is not installed.
func LoggerFrom(c echo.Context) *logger.Logger {
	if l, ok := c.Get(loggerKey).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
