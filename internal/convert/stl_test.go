// stl_test.go - Tests for binary STL output validation
package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/step-viewer/backend/internal/convert"
	"github.com/step-viewer/backend/internal/testutil"
)

func writeMesh(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.stl")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateBinarySTL(t *testing.T) {
	t.Run("accepts valid binary mesh", func(t *testing.T) {
		path := writeMesh(t, testutil.BinarySTL(3))
		if err := convert.ValidateBinarySTL(path); err != nil {
			t.Errorf("Expected valid mesh, got %v", err)
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		if err := convert.ValidateBinarySTL(filepath.Join(t.TempDir(), "nope.stl")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("rejects truncated file", func(t *testing.T) {
		path := writeMesh(t, []byte("too short"))
		if err := convert.ValidateBinarySTL(path); err == nil {
			t.Error("Expected error for truncated file")
		}
	})

	t.Run("rejects zero triangles", func(t *testing.T) {
		path := writeMesh(t, testutil.BinarySTL(0))
		if err := convert.ValidateBinarySTL(path); err == nil {
			t.Error("Expected error for empty mesh")
		}
	})

	t.Run("rejects size mismatch", func(t *testing.T) {
		data := testutil.BinarySTL(2)
		path := writeMesh(t, data[:len(data)-10])
		if err := convert.ValidateBinarySTL(path); err == nil {
			t.Error("Expected error for size mismatch")
		}
	})

	t.Run("rejects ASCII STL", func(t *testing.T) {
		ascii := []byte("solid cube\n facet normal 0 0 1\n  outer loop\n  endloop\n endfacet\nendsolid cube\n")
		// Pad so it clears the minimum-length check.
		for len(ascii) < 84 {
			ascii = append(ascii, '\n')
		}
		path := writeMesh(t, ascii)
		if err := convert.ValidateBinarySTL(path); err == nil {
			t.Error("Expected error for ASCII mesh")
		}
	})
}
