// converter_test.go - Tests for the external kernel adapter
package convert_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/step-viewer/backend/internal/convert"
	"github.com/step-viewer/backend/internal/testutil"
)

// fakeKernel writes an executable shell script standing in for the kernel
// command and returns a profile pointing at it.
func fakeKernel(t *testing.T, script string) []convert.KernelProfile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernel.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return []convert.KernelProfile{
		{Name: "fake", Command: path, Args: []string{"{in}", "{out}", "{deflection}"}},
	}
}

func convertPaths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "part.step")
	if err := os.WriteFile(src, []byte("ISO-10303-21;"), 0644); err != nil {
		t.Fatal(err)
	}
	return src, filepath.Join(dir, "part.stl")
}

func TestKernelConverter_Unavailable(t *testing.T) {
	profiles := []convert.KernelProfile{
		{Name: "ghost", Command: "definitely-not-a-real-kernel-command", Args: []string{"{in}", "{out}"}},
	}
	c := convert.NewKernelConverter(profiles, 0.1, time.Minute)

	if c.Available() {
		t.Fatal("Expected converter to be unavailable")
	}

	src, dest := convertPaths(t)
	err := c.Convert(context.Background(), src, dest)
	if !errors.Is(err, convert.ErrKernelUnavailable) {
		t.Errorf("Expected ErrKernelUnavailable, got %v", err)
	}
}

func TestKernelConverter_Success(t *testing.T) {
	meshPath := filepath.Join(t.TempDir(), "canned.stl")
	if err := os.WriteFile(meshPath, testutil.BinarySTL(2), 0644); err != nil {
		t.Fatal(err)
	}

	c := convert.NewKernelConverter(fakeKernel(t, fmt.Sprintf("cp %s \"$2\"\n", meshPath)), 0.1, time.Minute)
	if !c.Available() {
		t.Fatal("Expected converter to be available")
	}
	if c.Kernel() != "fake" {
		t.Errorf("Expected kernel 'fake', got %q", c.Kernel())
	}

	src, dest := convertPaths(t)
	if err := c.Convert(context.Background(), src, dest); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if err := convert.ValidateBinarySTL(dest); err != nil {
		t.Errorf("Output mesh invalid: %v", err)
	}
}

func TestKernelConverter_FailureMapping(t *testing.T) {
	tests := []struct {
		name   string
		script string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "read failure carries kernel status",
			script: "echo 'Error reading STEP file. Status: 3' >&2\nexit 2\n",
			check: func(t *testing.T, err error) {
				var readErr *convert.ReadError
				if !errors.As(err, &readErr) {
					t.Fatalf("Expected ReadError, got %v", err)
				}
				if readErr.Status != 3 {
					t.Errorf("Expected status 3, got %d", readErr.Status)
				}
			},
		},
		{
			name:   "empty shape",
			script: "exit 3\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, convert.ErrEmptyShape) {
					t.Errorf("Expected ErrEmptyShape, got %v", err)
				}
			},
		},
		{
			name:   "write failure",
			script: "echo garbage > \"$2\"\nexit 4\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, convert.ErrWriteFailure) {
					t.Errorf("Expected ErrWriteFailure, got %v", err)
				}
			},
		},
		{
			name:   "unknown exit code surfaces stderr",
			script: "echo 'kernel exploded' >&2\nexit 9\n",
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("Expected error")
				}
				if !strings.Contains(err.Error(), "kernel exploded") {
					t.Errorf("Expected stderr in error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := convert.NewKernelConverter(fakeKernel(t, tt.script), 0.1, time.Minute)
			src, dest := convertPaths(t)

			err := c.Convert(context.Background(), src, dest)
			tt.check(t, err)

			// A failed conversion must not leave output behind.
			if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
				t.Errorf("Partial output left at %s", dest)
			}
		})
	}
}

func TestKernelConverter_InvalidOutputRemoved(t *testing.T) {
	// Kernel reports success but writes a file that is not a binary STL.
	c := convert.NewKernelConverter(fakeKernel(t, "echo 'not a mesh' > \"$2\"\n"), 0.1, time.Minute)
	src, dest := convertPaths(t)

	err := c.Convert(context.Background(), src, dest)
	if !errors.Is(err, convert.ErrWriteFailure) {
		t.Fatalf("Expected ErrWriteFailure, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Invalid output not removed")
	}
}

func TestKernelConverter_FailureKeepsExistingMesh(t *testing.T) {
	// A re-conversion of the same source that fails must leave the mesh a
	// previous successful run produced untouched.
	src, dest := convertPaths(t)
	if err := os.WriteFile(dest, testutil.BinarySTL(2), 0644); err != nil {
		t.Fatal(err)
	}

	c := convert.NewKernelConverter(fakeKernel(t, "echo 'Error reading STEP file. Status: 2' >&2\nexit 2\n"), 0.1, time.Minute)

	err := c.Convert(context.Background(), src, dest)
	var readErr *convert.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Expected ReadError, got %v", err)
	}

	if err := convert.ValidateBinarySTL(dest); err != nil {
		t.Errorf("Existing mesh disturbed by failed conversion: %v", err)
	}

	// No staging files left beside the mesh either.
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Staging file left behind: %s", e.Name())
		}
	}
}

func TestKernelConverter_Timeout(t *testing.T) {
	c := convert.NewKernelConverter(fakeKernel(t, "sleep 5\n"), 0.1, 100*time.Millisecond)
	src, dest := convertPaths(t)

	err := c.Convert(context.Background(), src, dest)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
}
