package binary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// installFile copies src to dest through a temporary file in dest's
// directory and renames it into place, so dest is never observed half
// written. When check is non-nil it runs against the staged copy, and a
// check error leaves dest untouched; the bytes that pass are the bytes
// installed. The executable bits are set before the rename unless the
// target platform is Windows.
func installFile(src, dest string, setExec bool, check func(staged string) error) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(destDir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return fmt.Errorf("copy binary: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if check != nil {
		if err := check(tmpPath); err != nil {
			return err
		}
	}

	if setExec {
		if err := SetExecutable(tmpPath); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// rwxr-xr-x: archive extraction does not reliably keep the execute bit
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
