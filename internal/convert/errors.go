package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fixed failure modes of the geometry kernel.
var (
	// ErrKernelUnavailable means no kernel command could be resolved in the
	// runtime environment. Callers treat this as the degraded path, not a
	// request failure.
	ErrKernelUnavailable = errors.New("geometry kernel is not available")

	// ErrEmptyShape means the STEP document parsed but held no
	// transferable top-level entities.
	ErrEmptyShape = errors.New("no shape found in STEP file")

	// ErrWriteFailure means the kernel failed to serialize the mesh, or
	// the output it produced was not a structurally valid binary STL.
	ErrWriteFailure = errors.New("failed to write STL file")
)

// ReadError reports a kernel-level STEP read failure together with the
// status the kernel returned.
type ReadError struct {
	Status int
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading STEP file, status %d", e.Status)
}
