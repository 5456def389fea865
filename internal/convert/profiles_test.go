// profiles_test.go - Tests for kernel profile loading
package convert_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/step-viewer/backend/internal/convert"
)

func TestLoadProfiles(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		profiles, err := convert.LoadProfiles(filepath.Join(t.TempDir(), "kernels.yaml"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(profiles) == 0 {
			t.Fatal("Expected default profiles")
		}
		if profiles[0].Command == "" {
			t.Error("Default profile has no command")
		}
	})

	t.Run("loads profile chain from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kernels.yaml")
		content := `kernels:
  - name: draw
    command: DRAWEXE
    args: ["-b", "{in}", "{out}"]
  - name: fallback
    command: step2stl
    args: ["{in}", "{out}", "--deflection", "{deflection}"]
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		profiles, err := convert.LoadProfiles(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(profiles) != 2 {
			t.Fatalf("Expected 2 profiles, got %d", len(profiles))
		}
		if profiles[0].Name != "draw" || profiles[0].Command != "DRAWEXE" {
			t.Errorf("First profile wrong: %+v", profiles[0])
		}
	})

	t.Run("rejects profile without command", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kernels.yaml")
		os.WriteFile(path, []byte("kernels:\n  - name: broken\n"), 0644)

		if _, err := convert.LoadProfiles(path); err == nil {
			t.Error("Expected error for profile without command")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kernels.yaml")
		os.WriteFile(path, []byte("kernels: [unclosed"), 0644)

		if _, err := convert.LoadProfiles(path); err == nil {
			t.Error("Expected error for malformed yaml")
		}
	})
}
