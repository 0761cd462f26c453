// Package platform resolves the host into one of the platform keys the
// prebuilt binaries are published for.
//
// A Key combines the operating system family and CPU architecture using the
// package registry's naming ("darwin-arm64", "win32-x64"). The supported set
// is a fixed table; a host outside it is an error, never a degraded mode.
// The package also exposes the detected host facts to Lua configuration
// through a read-only table, and uses gopsutil for Linux distribution
// details that only feed diagnostics.
package platform

import (
	"context"
	"strings"
)

// Key identifies a supported OS/architecture pair.
type Key string

// Supported platform keys.
const (
	DarwinX64   Key = "darwin-x64"
	DarwinARM64 Key = "darwin-arm64"
	LinuxX64    Key = "linux-x64"
	Win32X64    Key = "win32-x64"
)

// String returns the string representation of the key
func (k Key) String() string {
	return string(k)
}

// OS returns the operating system half of the key ("darwin", "linux", "win32").
func (k Key) OS() string {
	os, _, _ := strings.Cut(string(k), keySeparator)
	return os
}

// Arch returns the architecture half of the key ("x64", "arm64").
func (k Key) Arch() string {
	_, arch, _ := strings.Cut(string(k), keySeparator)
	return arch
}

// IsWindows reports whether binaries for this key need the .exe suffix and
// skip POSIX permission bits.
func (k Key) IsWindows() bool {
	return k.OS() == "win32"
}

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // raw GOOS ("linux", "darwin", "windows")
	Arch     string // raw GOARCH ("amd64", "arm64")
	Key      Key    // resolved platform key
	Platform string // distro ID (Linux only, e.g., "ubuntu")
	Family   string // canonical family (e.g., "debian")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.Key.OS() == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.Key.OS() == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.Key.IsWindows()
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Key.Arch() == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
