package http

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the API document served under /swagger
	_ "github.com/flight-search/flight-offer-engine/docs"
)

// RegisterRoutes registers all offer engine routes.
// metricsHandler may be nil, in which case /metrics is not exposed.
func RegisterRoutes(e *echo.Echo, h *OfferHandler, metricsHandler nethttp.Handler) {
	// Operational endpoints (no version prefix)
	e.GET("/health", h.Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	api := e.Group("/api/v1")

	offers := api.Group("/offers")
	offers.POST("/filter", h.FilterOffers)

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
