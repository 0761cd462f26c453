package binary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

var (
	// ErrPackageUnavailable means the optional platform package is not
	// installed or does not carry the binary.
	ErrPackageUnavailable = errors.New("prebuilt binary package unavailable")
	// ErrToolchainUnavailable means the toolchain probe failed.
	ErrToolchainUnavailable = errors.New("build toolchain unavailable")
	// ErrBuildFailed means the source build failed or produced no artifact.
	ErrBuildFailed = errors.New("build from source failed")
	// ErrSignature means a prebuilt binary failed signature verification.
	ErrSignature = errors.New("signature verification failed")
	// ErrNoBinary means no stage of the install chain produced a binary.
	ErrNoBinary = errors.New("no binary installed")
)

// NoBinaryError is returned when every install stage failed. Its message
// is the operator guidance printed by the install command.
type NoBinaryError struct {
	Binary    string
	Package   string
	BuildTool string
	Platform  platform.Key
	Causes    []error
}

func (e *NoBinaryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to install %s for %s\n\n", e.Binary, e.Platform)
	b.WriteString("Please ensure one of the following:\n")
	fmt.Fprintf(&b, "  1. Install the pre-built binary package for your platform (%s)\n", e.Package)
	fmt.Fprintf(&b, "  2. Have %s\n", toolchainHint(e.BuildTool))
	fmt.Fprintf(&b, "\nVisit %s for more information.\n", config.ProjectURL)
	if len(e.Causes) > 0 {
		b.WriteString("\nDetails:\n")
		for _, cause := range e.Causes {
			fmt.Fprintf(&b, "  - %v\n", cause)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Unwrap exposes ErrNoBinary and every stage failure to errors.Is.
func (e *NoBinaryError) Unwrap() []error {
	return append([]error{ErrNoBinary}, e.Causes...)
}

func toolchainHint(tool string) string {
	if tool == "cargo" {
		return "Rust and Cargo installed to build from source (https://rustup.rs)"
	}
	return tool + " installed to build from source"
}
