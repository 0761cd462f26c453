package binary

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestInstallFile(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		setExec  bool
	}{
		{name: "fresh target", setExec: true},
		{name: "overwrites previous binary", existing: "old", setExec: true},
		{name: "windows target keeps mode", setExec: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src")
			if err := os.WriteFile(src, []byte("new binary"), 0644); err != nil {
				t.Fatal(err)
			}
			dest := filepath.Join(dir, "bin", "gewe-notice-mcp")
			if tt.existing != "" {
				if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(dest, []byte(tt.existing), 0755); err != nil {
					t.Fatal(err)
				}
			}

			if err := installFile(src, dest, tt.setExec, nil); err != nil {
				t.Fatalf("installFile() error = %v", err)
			}

			data, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("read dest: %v", err)
			}
			if string(data) != "new binary" {
				t.Errorf("dest content = %q, want %q", data, "new binary")
			}

			entries, err := os.ReadDir(filepath.Dir(dest))
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("bin dir has %d entries, want only the binary", len(entries))
			}

			if runtime.GOOS == "windows" {
				return
			}
			info, err := os.Stat(dest)
			if err != nil {
				t.Fatal(err)
			}
			isExec := info.Mode().Perm()&0111 == 0111
			if tt.setExec && !isExec {
				t.Errorf("mode = %v, want executable by all", info.Mode().Perm())
			}
		})
	}
}

func TestInstallFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "bin", "gewe-notice-mcp")

	if err := installFile(filepath.Join(dir, "missing"), dest, true, nil); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("dest should not exist after failure, stat err = %v", err)
	}
}

func TestInstallFile_CheckSeesInstalledBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("signed"), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "bin", "gewe-notice-mcp")

	var checked string
	err := installFile(src, dest, true, func(staged string) error {
		// The source changing after staging must not reach dest.
		if err := os.WriteFile(src, []byte("swapped"), 0644); err != nil {
			return err
		}
		data, err := os.ReadFile(staged)
		checked = string(data)
		return err
	})
	if err != nil {
		t.Fatalf("installFile() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if checked != "signed" || string(data) != checked {
		t.Errorf("checked %q, installed %q; want both %q", checked, data, "signed")
	}
}

func TestInstallFile_CheckFailureKeepsDest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "bin", "gewe-notice-mcp")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("old"), 0755); err != nil {
		t.Fatal(err)
	}

	errReject := errors.New("rejected")
	err := installFile(src, dest, true, func(string) error { return errReject })
	if !errors.Is(err, errReject) {
		t.Fatalf("installFile() error = %v, want %v", err, errReject)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Errorf("dest = %q, want previous binary kept", data)
	}
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("bin dir has %d entries, want the staged copy removed", len(entries))
	}
}

func TestSetExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := SetExecutable(path); err != nil {
		t.Fatalf("SetExecutable() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0755 {
		t.Errorf("mode = %v, want 0755", got)
	}
}
