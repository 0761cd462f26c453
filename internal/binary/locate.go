package binary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const manifestName = "package.json"

// Locator finds optional packages the way the package manager's runtime
// resolves them: <dir>/node_modules/<name> for the package root and each
// ancestor, then each NODE_PATH entry.
type Locator struct {
	root     string
	nodePath []string
}

// NewLocator creates a locator rooted at the package root.
func NewLocator(root string, nodePath []string) *Locator {
	return &Locator{root: root, nodePath: nodePath}
}

// NodePathFromEnv splits NODE_PATH into its non-empty entries.
func NodePathFromEnv() []string {
	var out []string
	for _, entry := range filepath.SplitList(os.Getenv("NODE_PATH")) {
		if strings.TrimSpace(entry) != "" {
			out = append(out, entry)
		}
	}
	return out
}

// Lookup resolves name and checks it for fileName at its root. The first
// directory holding the package's manifest wins, whether or not it carries
// the binary.
func (l *Locator) Lookup(name, fileName string) PackageLookup {
	lookup := PackageLookup{State: PackageUnresolved, Name: name}

	for _, dir := range l.candidateDirs(name) {
		lookup.Searched = append(lookup.Searched, dir)

		if !isRegularFile(filepath.Join(dir, manifestName)) {
			continue
		}

		lookup.Dir = dir
		lookup.Version, _ = readManifestVersion(dir)

		binaryPath := filepath.Join(dir, fileName)
		if isRegularFile(binaryPath) {
			lookup.State = PackageWithBinary
			lookup.BinaryPath = binaryPath
		} else {
			lookup.State = PackageWithoutBinary
		}
		return lookup
	}

	return lookup
}

// candidateDirs lists, in resolution order, every directory that could hold
// the package. Ancestors that are themselves node_modules are skipped.
func (l *Locator) candidateDirs(name string) []string {
	var dirs []string

	dir := filepath.Clean(l.root)
	for {
		if filepath.Base(dir) != "node_modules" {
			dirs = append(dirs, filepath.Join(dir, "node_modules", name))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for _, entry := range l.nodePath {
		dirs = append(dirs, filepath.Join(entry, name))
	}

	return dirs
}

type packageManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// readManifestVersion returns the "version" field of dir/package.json.
func readManifestVersion(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("parse manifest %s: %w", dir, err)
	}
	return manifest.Version, nil
}

// isRegularFile checks if path exists and is a regular file
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
