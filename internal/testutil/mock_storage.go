// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/step-viewer/backend/internal/models"
	"github.com/step-viewer/backend/internal/storage"
)

// MockStorage implements storage.Store in memory, with hooks to inject
// failures into individual operations.
type MockStorage struct {
	mu       sync.RWMutex
	uploads  map[string]mockFile
	meshes   map[string]bool
	SaveErr  error
	ListErr  error
	nextTime time.Time
}

type mockFile struct {
	data  []byte
	mtime time.Time
}

// NewMockStorage creates an empty mock store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		uploads:  make(map[string]mockFile),
		meshes:   make(map[string]bool),
		nextTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddUpload seeds an upload with a synthetic, strictly increasing mtime.
func (m *MockStorage) AddUpload(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTime = m.nextTime.Add(time.Minute)
	m.uploads[name] = mockFile{data: data, mtime: m.nextTime}
}

// AddMesh marks a derived mesh as present.
func (m *MockStorage) AddMesh(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meshes[name] = true
}

// UploadCount returns the number of stored uploads.
func (m *MockStorage) UploadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploads)
}

func (m *MockStorage) SaveUpload(name string, r io.Reader) (*models.StoredAsset, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sanitized := storage.SanitizeFilename(name)
	m.AddUpload(sanitized, data)

	return &models.StoredAsset{
		Name:       sanitized,
		Path:       "/mock/uploads/" + sanitized,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

func (m *MockStorage) UploadPath(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.uploads[storage.SanitizeFilename(name)]; !ok {
		return "", storage.ErrNotFound
	}
	return "/mock/uploads/" + name, nil
}

func (m *MockStorage) MeshPath(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.meshes[storage.SanitizeFilename(name)] {
		return "", storage.ErrNotFound
	}
	return "/mock/static/" + name, nil
}

func (m *MockStorage) MeshTarget(sourceName string) (string, string) {
	sanitized := storage.SanitizeFilename(sourceName)
	if i := strings.LastIndex(sanitized, "."); i >= 0 {
		sanitized = sanitized[:i]
	}
	meshName := sanitized + storage.MeshExtension
	return meshName, "/mock/static/" + meshName
}

func (m *MockStorage) ListRecent(limit int) ([]models.CatalogEntry, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scanned struct {
		entry models.CatalogEntry
		mtime time.Time
	}

	var files []scanned
	for name, f := range m.uploads {
		if !storage.AllowedExtension(name) {
			continue
		}
		entry := models.CatalogEntry{
			Filename: name,
			Date:     f.mtime.Format(time.RFC3339),
			Size:     int64(len(f.data)),
		}
		meshName, _ := m.MeshTarget(name)
		if m.meshes[meshName] {
			ref := storage.MeshPrefix + meshName
			entry.STLFile = &ref
		}
		files = append(files, scanned{entry: entry, mtime: f.mtime})
	}

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

// ErrScanFailed is a canned error for catalog failure injection.
var ErrScanFailed = errors.New("scan failed")
