package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/step-viewer/backend/internal/manifest"
	"github.com/step-viewer/backend/internal/models"
)

// Recorder runs conversions through a Converter and persists a
// ConversionRecord for every attempt, including skips in degraded mode.
// Manifest write failures are logged and swallowed: the record is an audit
// trail, not part of the request outcome.
type Recorder struct {
	conv      Converter
	manifests *manifest.Store
}

// NewRecorder wraps a converter with manifest bookkeeping. A nil manifest
// store disables recording.
func NewRecorder(conv Converter, manifests *manifest.Store) *Recorder {
	return &Recorder{
		conv:      conv,
		manifests: manifests,
	}
}

// Available reports whether the underlying kernel is usable.
func (r *Recorder) Available() bool {
	return r.conv.Available()
}

// Run converts sourcePath into a mesh at destPath and records the attempt
// under the sanitized source filename. meshRef is the public reference the
// mesh will be served from on success.
func (r *Recorder) Run(ctx context.Context, filename, sourcePath, destPath, meshRef string) error {
	rec := &models.ConversionRecord{
		JobID:     uuid.New().String(),
		Filename:  filename,
		StartedAt: time.Now(),
	}

	var err error
	if !r.conv.Available() {
		rec.Status = models.ConversionSkipped
		err = ErrKernelUnavailable
	} else if err = r.conv.Convert(ctx, sourcePath, destPath); err != nil {
		rec.Status = models.ConversionFailed
		rec.Error = err.Error()
	} else {
		rec.Status = models.ConversionConverted
		rec.STLFile = meshRef
	}

	rec.CompletedAt = time.Now()
	rec.DurationMS = rec.CompletedAt.Sub(rec.StartedAt).Milliseconds()

	if r.manifests != nil {
		if werr := r.manifests.Write(rec); werr != nil {
			fmt.Printf("[Conversion %s] warning: failed to write manifest for %s: %v\n",
				rec.JobID[:8], filename, werr)
		}
	}

	return err
}
