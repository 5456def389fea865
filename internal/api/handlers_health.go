// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/step-viewer/backend/internal/convert"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	conv    *convert.Recorder
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, conv *convert.Recorder) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		conv:    conv,
	}
}

// HandleHealth returns server health status, including whether the geometry
// kernel is usable or the service is running in degraded intake-only mode.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"version":          h.version,
		"kernel_available": h.conv.Available(),
	})
}
