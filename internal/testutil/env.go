// Package testutil provides utilities for testing the shim in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv creates an isolated package root for each test and points
// the shim at it. Package lookups never see the developer's own
// NODE_PATH, and logging stays at its default level.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "node_modules", "gewe-notice-mcp")

	t.Setenv("GEWE_NOTICE_MCP_ROOT", root)
	t.Setenv("GEWE_SHIM_LOG", "")
	t.Setenv("NODE_PATH", "")

	if err := os.MkdirAll(root, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", root, err)
	}

	return root
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WritePackage lays out an installed package at dir with a package.json
// carrying name and version. Files maps names relative to dir to content.
func WritePackage(t *testing.T, dir, name, version string, files map[string]string) string {
	t.Helper()

	manifest := `{"name": "` + name + `", "version": "` + version + `"}`
	WriteFile(t, dir, "package.json", manifest)
	for rel, content := range files {
		WriteFile(t, dir, rel, content)
	}
	return dir
}
