package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/step-viewer/backend/internal/models"
)

// ErrNotFound is returned when a named file is absent from storage.
var ErrNotFound = errors.New("file not found")

// Public URL prefixes under which stored files are served back.
const (
	UploadsPrefix = "/uploads/"
	MeshPrefix    = "/static/"
)

// MeshExtension is the extension of derived mesh files.
const MeshExtension = ".stl"

// allowedExtensions is the fixed allow-set for source files.
var allowedExtensions = map[string]bool{
	".stp":  true,
	".step": true,
}

// Store defines the interface for upload and mesh file storage.
type Store interface {
	SaveUpload(name string, r io.Reader) (*models.StoredAsset, error)
	UploadPath(name string) (string, error)
	MeshPath(name string) (string, error)
	MeshTarget(sourceName string) (meshName string, path string)
	ListRecent(limit int) ([]models.CatalogEntry, error)
}

// LocalStore implements Store on the local filesystem: an uploads directory
// for raw sources and a results directory for derived meshes. The directory
// contents are the system of record; no index is kept in memory, so anything
// placed there out of band is visible on the next scan.
type LocalStore struct {
	uploadDir  string
	resultsDir string
}

// NewLocalStore creates a LocalStore, creating both directories if needed.
func NewLocalStore(uploadDir, resultsDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	return &LocalStore{
		uploadDir:  uploadDir,
		resultsDir: resultsDir,
	}, nil
}

// AllowedExtension reports whether name carries one of the accepted CAD
// source extensions (case-insensitive).
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// SanitizeFilename strips path components and replaces characters that are
// unsafe as a storage key. The result is safe to join under a storage
// directory; it never escapes it.
func SanitizeFilename(name string) string {
	// Drop any directory part, whichever separator the client used.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.Trim(b.String(), ".")
}

// stem returns the filename without its extension.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SaveUpload writes the source bytes under the sanitized name. A same-name
// upload silently overwrites the previous file; the write goes through a
// temp file and rename so a concurrent catalog scan never sees a partial
// source.
func (s *LocalStore) SaveUpload(name string, r io.Reader) (*models.StoredAsset, error) {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		return nil, fmt.Errorf("empty filename after sanitization")
	}

	finalPath := filepath.Join(s.uploadDir, sanitized)
	tmpPath := finalPath + "." + uuid.New().String() + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("storing file: %w", err)
	}

	return &models.StoredAsset{
		Name:       sanitized,
		Path:       finalPath,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// UploadPath returns the absolute path of a stored source file, or
// ErrNotFound. The name is re-sanitized so a crafted request cannot reach
// outside the uploads directory.
func (s *LocalStore) UploadPath(name string) (string, error) {
	return s.resolve(s.uploadDir, name)
}

// MeshPath returns the absolute path of a derived mesh file, or ErrNotFound.
func (s *LocalStore) MeshPath(name string) (string, error) {
	return s.resolve(s.resultsDir, name)
}

func (s *LocalStore) resolve(dir, name string) (string, error) {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		return "", ErrNotFound
	}

	path := filepath.Join(dir, sanitized)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("checking file: %w", err)
	}

	return path, nil
}

// MeshTarget derives the mesh filename for a stored source (stem + ".stl")
// and the path the converter should write it to. The join between source and
// mesh is this naming convention and nothing else.
func (s *LocalStore) MeshTarget(sourceName string) (string, string) {
	meshName := stem(SanitizeFilename(sourceName)) + MeshExtension
	return meshName, filepath.Join(s.resultsDir, meshName)
}

// ListRecent scans the uploads directory, joins each source to any same-stem
// mesh in the results directory, and returns the newest entries first,
// truncated to limit. The scan is best-effort and point-in-time: entries are
// whatever the directory held at enumeration. A missing uploads directory is
// an empty catalog, not an error.
func (s *LocalStore) ListRecent(limit int) ([]models.CatalogEntry, error) {
	dirEntries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.CatalogEntry{}, nil
		}
		return nil, fmt.Errorf("scanning uploads: %w", err)
	}

	type scanned struct {
		entry models.CatalogEntry
		mtime time.Time
	}

	var files []scanned
	for _, de := range dirEntries {
		if de.IsDir() || !AllowedExtension(de.Name()) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Deleted between readdir and stat; skip it.
			continue
		}

		entry := models.CatalogEntry{
			Filename: de.Name(),
			Date:     info.ModTime().Format(time.RFC3339),
			Size:     info.Size(),
		}

		meshName := stem(de.Name()) + MeshExtension
		if _, err := os.Stat(filepath.Join(s.resultsDir, meshName)); err == nil {
			ref := MeshPrefix + meshName
			entry.STLFile = &ref
		}

		files = append(files, scanned{entry: entry, mtime: info.ModTime()})
	}

	// Newest first; ties keep directory enumeration order.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].mtime.After(files[j].mtime)
	})

	if len(files) > limit {
		files = files[:limit]
	}

	entries := make([]models.CatalogEntry, len(files))
	for i, f := range files {
		entries[i] = f.entry
	}

	return entries, nil
}
