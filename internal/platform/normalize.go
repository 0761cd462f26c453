package platform

import (
	"strings"
)

// osAliases maps raw OS identifiers to the registry's OS naming.
var osAliases = map[string]string{
	"windows": "win32",
	"win32":   "win32",
	"darwin":  "darwin",
	"macos":   "darwin",
	"linux":   "linux",
}

// archAliases maps raw architecture identifiers to the registry's naming.
// Both Go and uname spellings are accepted.
var archAliases = map[string]string{
	"amd64":   "x64",
	"x86_64":  "x64",
	"x64":     "x64",
	"arm64":   "arm64",
	"aarch64": "arm64",
}

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// normalizeOS converts a raw OS identifier to registry naming. Unknown
// values pass through lowercased so that lookup misses report what the
// host actually said.
func normalizeOS(goos string) string {
	v := normalizePlatform(goos)
	if canonical, ok := osAliases[v]; ok {
		return canonical
	}
	return v
}

// normalizeArch converts a raw architecture identifier to registry naming.
func normalizeArch(arch string) string {
	v := normalizePlatform(arch)
	if canonical, ok := archAliases[v]; ok {
		return canonical
	}
	return v
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := normalizePlatform(family)
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
