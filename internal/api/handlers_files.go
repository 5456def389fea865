// handlers_files.go - Raw source and derived mesh streaming handlers
package api

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/step-viewer/backend/internal/storage"
)

// FileHandlerImpl implements the FileHandler interface
type FileHandlerImpl struct {
	store storage.Store
}

// NewFileHandler creates a new file streaming handler
func NewFileHandler(store storage.Store) FileHandler {
	return &FileHandlerImpl{store: store}
}

// HandleGetUpload streams a stored source file back by name.
func (h *FileHandlerImpl) HandleGetUpload(c echo.Context) error {
	return h.serve(c, h.store.UploadPath)
}

// HandleGetMesh streams a derived mesh file back by name.
func (h *FileHandlerImpl) HandleGetMesh(c echo.Context) error {
	return h.serve(c, h.store.MeshPath)
}

func (h *FileHandlerImpl) serve(c echo.Context, resolve func(string) (string, error)) error {
	name := c.Param("filename")
	if name == "" {
		return NewNotFoundError("File not found")
	}

	path, err := resolve(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFoundError("File not found")
		}
		return NewInternalError("Error reading file", err)
	}

	// Sniff the content type from the bytes; STEP sources are text, meshes
	// binary, and the extension alone misleads generic detectors.
	if mt, err := mimetype.DetectFile(path); err == nil {
		c.Response().Header().Set(echo.HeaderContentType, mt.String())
	}

	return c.File(path)
}
