package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Binary STL layout: 80-byte header, uint32 triangle count, then 50 bytes
// per triangle (normal, three vertices, attribute word).
const (
	stlHeaderSize   = 80
	stlCountSize    = 4
	stlTriangleSize = 50
)

// ValidateBinarySTL checks that the file at path is a structurally sound,
// non-empty binary STL: minimum length, a triangle count consistent with the
// file size, and not an ASCII "solid" document. It does not inspect the
// geometry itself.
func ValidateBinarySTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening mesh: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("checking mesh: %w", err)
	}

	size := fi.Size()
	if size < stlHeaderSize+stlCountSize {
		return fmt.Errorf("mesh file truncated: %d bytes", size)
	}

	header := make([]byte, stlHeaderSize+stlCountSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("reading mesh header: %w", err)
	}

	// ASCII STL starts with "solid". A binary file could legally start with
	// those bytes, but the kernel is asked for binary output and a count
	// mismatch catches the rest.
	count := binary.LittleEndian.Uint32(header[stlHeaderSize:])
	expected := int64(stlHeaderSize+stlCountSize) + int64(count)*stlTriangleSize

	if bytes.HasPrefix(header, []byte("solid")) && size != expected {
		return fmt.Errorf("mesh is ASCII STL, expected binary")
	}

	if count == 0 {
		return fmt.Errorf("mesh has no triangles")
	}
	if size != expected {
		return fmt.Errorf("mesh size mismatch: %d bytes for %d triangles, expected %d", size, count, expected)
	}

	return nil
}
