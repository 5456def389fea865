package models

import "time"

// CatalogEntry is a read-time projection joining an uploaded CAD source to
// its (possibly absent) derived mesh. It is recomputed on every catalog
// request; nothing here is persisted.
type CatalogEntry struct {
	Filename string  `json:"filename"`
	STLFile  *string `json:"stl_file"`
	Date     string  `json:"date"` // ISO-8601
	Size     int64   `json:"size"`
}

// StoredAsset describes a source file persisted to the uploads area.
type StoredAsset struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
