package binary

import (
	"time"

	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Source tells where an installed binary came from.
type Source int

const (
	// SourceNone means nothing was installed.
	SourceNone Source = iota
	// SourcePlatformPackage means the binary was copied from the optional
	// per-platform package.
	SourcePlatformPackage
	// SourceBuild means the binary was compiled locally.
	SourceBuild
)

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case SourcePlatformPackage:
		return "platform-package"
	case SourceBuild:
		return "source-build"
	case SourceNone:
		return "none"
	default:
		return "unknown"
	}
}

// PackageState is the outcome of looking up an optional platform package.
type PackageState int

const (
	// PackageUnresolved means no installed package with that name was found.
	PackageUnresolved PackageState = iota
	// PackageWithoutBinary means the package is installed but does not carry
	// the expected binary file.
	PackageWithoutBinary
	// PackageWithBinary means the package is installed and carries the binary.
	PackageWithBinary
)

// String returns the string representation of the package state
func (s PackageState) String() string {
	switch s {
	case PackageUnresolved:
		return "unresolved"
	case PackageWithoutBinary:
		return "resolved-without-binary"
	case PackageWithBinary:
		return "resolved-with-binary"
	default:
		return "unknown"
	}
}

// PackageLookup describes where an optional package was (or was not) found.
type PackageLookup struct {
	State      PackageState
	Name       string
	Dir        string   // package directory (empty when unresolved)
	Version    string   // manifest version, if readable
	BinaryPath string   // set only for PackageWithBinary
	Searched   []string // directories probed, in order
}

// VerificationMethod indicates how a prebuilt binary was verified
type VerificationMethod int

const (
	// VerificationNone indicates no verification was configured or possible
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates OpenPGP detached signature verification
	VerificationGPG
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// InstallResult contains information about a completed install
type InstallResult struct {
	Platform platform.Key
	Source   Source
	Package  string // optional package name, for SourcePlatformPackage
	Path     string // fixed target path
	Verified VerificationMethod
	Duration time.Duration
}
