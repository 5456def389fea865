// Package web provides the embedded HTML entry page for the viewer.
package web

import (
	"embed"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/*
var staticFiles embed.FS

// HandleIndex serves the embedded viewer entry page.
func HandleIndex(c echo.Context) error {
	f, err := staticFiles.Open("static/index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read index.html")
	}

	return c.HTMLBlob(http.StatusOK, content)
}
