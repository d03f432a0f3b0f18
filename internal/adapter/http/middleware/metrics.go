package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// HTTPMetrics receives one observation per served request.
type HTTPMetrics interface {
	HTTPRequest(method, route string, status int, d time.Duration)
}

// Metrics returns middleware that reports every request to m, labelled by the
// registered route template. Unmatched requests are reported under "unmatched".
func Metrics(m HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
