// handlers_upload.go - CAD file submission handler
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/step-viewer/backend/internal/convert"
	"github.com/step-viewer/backend/internal/storage"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store storage.Store
	conv  *convert.Recorder
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, conv *convert.Recorder) UploadHandler {
	return &UploadHandlerImpl{
		store: store,
		conv:  conv,
	}
}

// HandleUpload accepts a multipart STEP file, stores it and synchronously
// converts it to a binary STL mesh. With no kernel available the upload
// still succeeds, flagged as needing conversion elsewhere.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("No file provided")
	}

	if file.Filename == "" {
		return NewBadRequestError("No file selected")
	}

	if !storage.AllowedExtension(file.Filename) {
		return NewBadRequestError("Invalid file type. Please upload .stp or .step files")
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("Error processing file", err)
	}
	defer src.Close()

	asset, err := h.store.SaveUpload(file.Filename, src)
	if err != nil {
		return NewInternalError("Error processing file", err)
	}

	meshName, meshPath := h.store.MeshTarget(asset.Name)
	meshRef := storage.MeshPrefix + meshName

	err = h.conv.Run(c.Request().Context(), asset.Name, asset.Path, meshPath, meshRef)
	if errors.Is(err, convert.ErrKernelUnavailable) {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":          true,
			"stp_file":         storage.UploadsPrefix + asset.Name,
			"filename":         asset.Name,
			"message":          "File uploaded. Geometry kernel not available; conversion must be done elsewhere.",
			"needs_conversion": true,
		})
	}
	if err != nil {
		return NewInternalError("Error processing file", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"stl_file": meshRef,
		"filename": asset.Name,
		"message":  "File uploaded and converted successfully",
	})
}
