package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`

	// Version is the API version of the service
	Version string `json:"version"`

	// ProfileVersion identifies the filter profile definitions being served
	ProfileVersion string `json:"profileVersion"`
}

// Health writes a health check response.
func Health(c echo.Context, version, profileVersion string) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:         "ok",
		Version:        version,
		ProfileVersion: profileVersion,
	})
}

// FilterResults writes a 200 OK response with the filter result.
func FilterResults(c echo.Context, result interface{}) error {
	return OK(c, result)
}
