// Package release keeps the version string identical across the npm
// manifest, its platform package pins and the Cargo manifest, and drives
// the commit and tag that publish it.
package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// BumpKind selects which part of the version is incremented.
type BumpKind string

const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// ErrInvalidVersion means a string is not a plain major.minor.patch triple.
var ErrInvalidVersion = errors.New("invalid version")

// ParseBumpKind converts a command-line word into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch kind := BumpKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case BumpPatch, BumpMinor, BumpMajor:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown bump type %q (want patch, minor or major)", s)
	}
}

// ValidateVersion accepts only full major.minor.patch triples without
// prerelease or build suffixes.
func ValidateVersion(version string) error {
	v := "v" + version
	if !semver.IsValid(v) || semver.Canonical(v) != v || semver.Prerelease(v) != "" {
		return fmt.Errorf("%w: %q is not major.minor.patch", ErrInvalidVersion, version)
	}
	return nil
}

// Bump returns current with the part named by kind incremented and the
// lower parts reset to zero.
func Bump(current string, kind BumpKind) (string, error) {
	if err := ValidateVersion(current); err != nil {
		return "", err
	}

	parts := strings.Split(current, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, current)
		}
		nums[i] = n
	}
	major, minor, patch := nums[0], nums[1], nums[2]

	switch kind {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	case BumpPatch:
		patch++
	default:
		return "", fmt.Errorf("unknown bump type %q", kind)
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}
