// handlers_catalog.go - Recent-conversion listing and manifest lookup
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/step-viewer/backend/internal/manifest"
	"github.com/step-viewer/backend/internal/models"
	"github.com/step-viewer/backend/internal/storage"
)

// recentLimit bounds the catalog listing.
const recentLimit = 4

// CatalogHandlerImpl implements the CatalogHandler interface
type CatalogHandlerImpl struct {
	store     storage.Store
	manifests *manifest.Store
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(store storage.Store, manifests *manifest.Store) CatalogHandler {
	return &CatalogHandlerImpl{
		store:     store,
		manifests: manifests,
	}
}

// HandleRecentUploads returns the most recent uploads, newest first, with
// any derived mesh attached. A scan failure reports the error alongside an
// empty list rather than failing the service.
func (h *CatalogHandlerImpl) HandleRecentUploads(c echo.Context) error {
	files, err := h.store.ListRecent(recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
			"files": []models.CatalogEntry{},
		})
	}

	if files == nil {
		files = []models.CatalogEntry{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"files": files,
	})
}

// HandleGetConversion returns the latest conversion record for an uploaded
// source file, 404 if it was never submitted for conversion.
func (h *CatalogHandlerImpl) HandleGetConversion(c echo.Context) error {
	name := storage.SanitizeFilename(c.Param("filename"))
	if name == "" {
		return NewNotFoundError("Conversion record not found")
	}

	rec, err := h.manifests.Read(name)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return NewNotFoundError("Conversion record not found")
		}
		return NewInternalError("Error reading conversion record", err)
	}

	return c.JSON(http.StatusOK, rec)
}
