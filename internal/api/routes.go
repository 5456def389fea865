// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/step-viewer/backend/internal/convert"
	"github.com/step-viewer/backend/internal/manifest"
	"github.com/step-viewer/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store     storage.Store
	Converter *convert.Recorder
	Manifests *manifest.Store
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Upload  UploadHandler
	Files   FileHandler
	Catalog CatalogHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Converter),
		Upload:  NewUploadHandler(deps.Store, deps.Converter),
		Files:   NewFileHandler(deps.Store),
		Catalog: NewCatalogHandler(deps.Store, deps.Manifests),
	}
}

// RegisterRoutes registers all routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.POST("/upload", handlers.Upload.HandleUpload)
	e.GET("/uploads/:filename", handlers.Files.HandleGetUpload)
	e.GET("/static/:filename", handlers.Files.HandleGetMesh)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/recent-uploads", handlers.Catalog.HandleRecentUploads)
	apiGroup.GET("/conversions/:filename", handlers.Catalog.HandleGetConversion)
}
