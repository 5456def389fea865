package convert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Argument placeholders substituted when a kernel command is built.
const (
	placeholderInput      = "{in}"
	placeholderOutput     = "{out}"
	placeholderDeflection = "{deflection}"
)

// KernelProfile describes one candidate external geometry kernel command.
// Profiles are tried in order and the first whose command resolves on PATH
// wins, mirroring the usual install story where only one OpenCascade
// frontend is present on a given host.
type KernelProfile struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// profilesFile is the shape of an optional kernels.yaml next to the binary.
type profilesFile struct {
	Kernels []KernelProfile `yaml:"kernels"`
}

// DefaultProfiles returns the built-in kernel candidate chain.
func DefaultProfiles() []KernelProfile {
	return []KernelProfile{
		{
			Name:    "occt",
			Command: "step2stl",
			Args:    []string{placeholderInput, placeholderOutput, "--deflection", placeholderDeflection, "--binary"},
		},
		{
			Name:    "occt-convert",
			Command: "occt-convert",
			Args:    []string{"--format", "stl", "--deflection", placeholderDeflection, placeholderInput, placeholderOutput},
		},
	}
}

// LoadProfiles reads kernel profiles from a YAML file. A missing file is not
// an error: the built-in defaults apply.
func LoadProfiles(path string) ([]KernelProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultProfiles(), nil
		}
		return nil, fmt.Errorf("reading kernel profiles: %w", err)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing kernel profiles: %w", err)
	}

	if len(f.Kernels) == 0 {
		return DefaultProfiles(), nil
	}

	for i, p := range f.Kernels {
		if p.Command == "" {
			return nil, fmt.Errorf("kernel profile %d has no command", i)
		}
	}

	return f.Kernels, nil
}
