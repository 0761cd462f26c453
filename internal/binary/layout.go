package binary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kardianos/osext"

	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// BinDirName is the directory under the package root holding the binary.
const BinDirName = "bin"

// BinDir returns the directory that holds the installed binary.
func BinDir(root string) string {
	return filepath.Join(root, BinDirName)
}

// TargetPath returns the fixed path of the installed binary. Installer and
// launcher both call this, so they cannot disagree.
func TargetPath(root, binary string, key platform.Key) string {
	return filepath.Join(BinDir(root), platform.BinaryFileName(binary, key))
}

// PackageRoot returns the package root: config.EnvRoot when set, otherwise
// the directory of the running executable with symlinks resolved (package
// managers link commands into a shared bin directory).
func PackageRoot() (string, error) {
	if root := os.Getenv(config.EnvRoot); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", config.EnvRoot, err)
		}
		return abs, nil
	}

	exe, err := osext.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
