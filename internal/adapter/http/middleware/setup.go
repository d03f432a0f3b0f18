package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
)

// Options configures the middleware stack installed by Setup.
type Options struct {
	// Recovery controls panic logging
	Recovery RecoveryConfig

	// Timeout bounds each request's context; zero disables it
	Timeout time.Duration

	// Metrics receives per-request observations; nil disables them
	Metrics HTTPMetrics
}

// Setup registers all middleware on the Echo instance in the correct order.
// The order is important:
//  1. RequestID - First, to generate/propagate request ID for all subsequent logging
//  2. Metrics - Observes the final status, including recovered panics
//  3. RequestLogger - Logs all requests with request ID
//  4. Recover - Catches panics and returns 500 (wraps handlers)
//  5. RequestTimeout - Innermost, so the deadline covers only handler work
//
// This function should be called before registering routes.
func Setup(e *echo.Echo, log *logger.Logger, opts Options) {
	e.Use(RequestID())
	if opts.Metrics != nil {
		e.Use(Metrics(opts.Metrics))
	}
	e.Use(RequestLogger(log))
	e.Use(RecoverWithConfig(log.Logger, opts.Recovery))
	e.Use(RequestTimeout(opts.Timeout))
}
