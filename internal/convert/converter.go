// Package convert wraps the external geometry kernel that turns STEP
// B-rep documents into binary STL triangle meshes. The kernel itself is an
// opaque collaborator invoked as a subprocess; this package supplies the
// availability gate, the fixed meshing parameters, typed failure modes and
// the guarantee that no partial output survives a failed conversion.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed meshing parameters. Linear deflection matches the tolerance the
// viewer expects; angular deflection is left at the kernel default.
const (
	DefaultLinearDeflection = 0.1
	DefaultTimeout          = 120 * time.Second
)

// Kernel subprocess exit codes, part of the kernel command contract.
const (
	exitReadFailure  = 2
	exitEmptyShape   = 3
	exitWriteFailure = 4
)

// Converter converts a STEP source file into a binary STL mesh at destPath.
// Implementations report availability up front so callers can take the
// degraded path without attempting a conversion.
type Converter interface {
	Available() bool
	Convert(ctx context.Context, sourcePath, destPath string) error
}

// KernelConverter runs an external geometry kernel command. The candidate
// profile chain is resolved once at construction; if no command is on PATH
// the converter stays in degraded mode and every Convert call fails fast
// with ErrKernelUnavailable.
type KernelConverter struct {
	profile    *KernelProfile
	deflection float64
	timeout    time.Duration
}

// NewKernelConverter probes the profile chain and returns a converter bound
// to the first resolvable kernel command, or an unavailable converter if
// none resolves.
func NewKernelConverter(profiles []KernelProfile, deflection float64, timeout time.Duration) *KernelConverter {
	if deflection <= 0 {
		deflection = DefaultLinearDeflection
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &KernelConverter{
		deflection: deflection,
		timeout:    timeout,
	}

	for i := range profiles {
		if _, err := exec.LookPath(profiles[i].Command); err == nil {
			p := profiles[i]
			c.profile = &p
			break
		}
	}

	return c
}

// Available reports whether a kernel command was resolved at startup.
func (c *KernelConverter) Available() bool {
	return c.profile != nil
}

// Kernel returns the name of the resolved kernel profile, or empty when
// unavailable.
func (c *KernelConverter) Kernel() string {
	if c.profile == nil {
		return ""
	}
	return c.profile.Name
}

// Convert runs the kernel on sourcePath and validates the mesh it wrote.
// The kernel writes to a staging path alongside destPath; the result is
// renamed onto destPath only after validation, so a failed re-conversion
// never disturbs a mesh a previous run produced and readers never observe
// a partial write.
func (c *KernelConverter) Convert(ctx context.Context, sourcePath, destPath string) error {
	if c.profile == nil {
		return ErrKernelUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tmpPath := destPath + "." + uuid.NewString() + ".tmp"

	args := make([]string, len(c.profile.Args))
	for i, a := range c.profile.Args {
		a = strings.ReplaceAll(a, placeholderInput, sourcePath)
		a = strings.ReplaceAll(a, placeholderOutput, tmpPath)
		a = strings.ReplaceAll(a, placeholderDeflection, strconv.FormatFloat(c.deflection, 'f', -1, 64))
		args[i] = a
	}

	cmd := exec.CommandContext(ctx, c.profile.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmpPath)
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("conversion timed out after %s: %w", c.timeout, ctx.Err())
		}
		return mapKernelError(err, stderr.String())
	}

	if err := ValidateBinarySTL(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	return nil
}

var readStatusRe = regexp.MustCompile(`status[ :]+(\d+)`)

// mapKernelError translates a kernel exit into the typed failure taxonomy.
func mapKernelError(err error, stderr string) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("running kernel: %w", err)
	}

	switch exitErr.ExitCode() {
	case exitReadFailure:
		status := exitReadFailure
		if m := readStatusRe.FindStringSubmatch(strings.ToLower(stderr)); m != nil {
			if n, perr := strconv.Atoi(m[1]); perr == nil {
				status = n
			}
		}
		return &ReadError{Status: status}
	case exitEmptyShape:
		return ErrEmptyShape
	case exitWriteFailure:
		return ErrWriteFailure
	default:
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("kernel failed: %s", msg)
	}
}
