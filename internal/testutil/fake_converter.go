// fake_converter.go - Fake geometry kernel for handler tests
package testutil

import (
	"context"
	"encoding/binary"
	"os"

	"github.com/step-viewer/backend/internal/convert"
)

// FakeConverter implements convert.Converter with scripted behavior.
type FakeConverter struct {
	Unavailable bool
	Err         error
	Calls       int
}

var _ convert.Converter = (*FakeConverter)(nil)

func (f *FakeConverter) Available() bool {
	return !f.Unavailable
}

// Convert writes a minimal valid binary STL on success.
func (f *FakeConverter) Convert(ctx context.Context, sourcePath, destPath string) error {
	f.Calls++
	if f.Unavailable {
		return convert.ErrKernelUnavailable
	}
	if f.Err != nil {
		return f.Err
	}
	return os.WriteFile(destPath, BinarySTL(1), 0644)
}

// BinarySTL builds a structurally valid binary STL with n zeroed triangles.
func BinarySTL(n int) []byte {
	buf := make([]byte, 84+50*n)
	copy(buf, "fake mesh")
	binary.LittleEndian.PutUint32(buf[80:], uint32(n))
	return buf
}
