// Package manifest persists one msgpack record per uploaded source,
// describing the latest conversion attempt against it. Records are an
// audit trail on the side: the catalog and the serving paths derive
// everything from the filesystem alone and keep working if the manifest
// directory is wiped.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/step-viewer/backend/internal/models"
)

// ErrNotFound is returned when no record exists for a source file.
var ErrNotFound = errors.New("manifest not found")

const recordExtension = ".manifest"

// Store reads and writes conversion records under a single directory.
type Store struct {
	dir string
}

// NewStore creates the manifest directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) recordPath(filename string) string {
	return filepath.Join(s.dir, filename+recordExtension)
}

// Write persists the record for its source filename, replacing any previous
// attempt. The write is atomic so a concurrent read sees either the old or
// the new record, never a torn one.
func (s *Store) Write(rec *models.ConversionRecord) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	final := s.recordPath(rec.Filename)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storing manifest: %w", err)
	}

	return nil
}

// Read returns the latest conversion record for a source filename.
func (s *Store) Read(filename string) (*models.ConversionRecord, error) {
	data, err := os.ReadFile(s.recordPath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var rec models.ConversionRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	return &rec, nil
}
