package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const keySeparator = "-"

// supported is the single source of truth for which hosts get a binary.
// Adding a platform is one entry here plus its optional package.
var supported = [...]Key{
	DarwinX64,
	DarwinARM64,
	LinuxX64,
	Win32X64,
}

// ErrUnsupportedPlatform is wrapped by every UnsupportedError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// UnsupportedError reports a host outside the supported table.
type UnsupportedError struct {
	Platform  string // normalized "<os>-<arch>" that missed the table
	Supported []Key
}

func (e *UnsupportedError) Error() string {
	names := make([]string, len(e.Supported))
	for i, k := range e.Supported {
		names[i] = k.String()
	}
	return fmt.Sprintf("unsupported platform: %s (supported platforms: %s)",
		e.Platform, strings.Join(names, ", "))
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedPlatform
}

// Supported returns the supported keys in table order.
func Supported() []Key {
	out := make([]Key, len(supported))
	copy(out, supported[:])
	return out
}

// Resolve maps raw OS and architecture identifiers to a supported Key.
func Resolve(goos, goarch string) (Key, error) {
	candidate := normalizeOS(goos) + keySeparator + normalizeArch(goarch)
	for _, k := range supported {
		if string(k) == candidate {
			return k, nil
		}
	}
	return "", &UnsupportedError{Platform: candidate, Supported: Supported()}
}

// Current detects the host and returns its Key. Nothing is cached, so two
// processes on the same host always agree.
func Current(ctx context.Context, detector Detector) (Key, *Info, error) {
	if detector == nil {
		detector = NewDetector()
	}
	info, err := detector.Detect(ctx)
	if err != nil {
		return "", nil, err
	}
	return info.Key, info, nil
}

// BinaryFileName returns the on-disk name of binary for key.
func BinaryFileName(binary string, key Key) string {
	if key.IsWindows() {
		return binary + ".exe"
	}
	return binary
}
