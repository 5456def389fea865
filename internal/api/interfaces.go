// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// UploadHandler handles CAD file submission and conversion
type UploadHandler interface {
	HandleUpload(c echo.Context) error
}

// FileHandler streams stored sources and derived meshes back to the client
type FileHandler interface {
	HandleGetUpload(c echo.Context) error
	HandleGetMesh(c echo.Context) error
}

// CatalogHandler handles recent-conversion listing and manifest lookups
type CatalogHandler interface {
	HandleRecentUploads(c echo.Context) error
	HandleGetConversion(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
