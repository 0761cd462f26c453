package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Manifest file names under the repository root.
const (
	PackageJSON = "package.json"
	CargoToml   = "Cargo.toml"
)

var (
	// The top-level "version" is the only one at two-space indent.
	packageVersionRe = regexp.MustCompile(`(?m)^(  "version"\s*:\s*")[^"]*(")`)
	optionalDepsRe   = regexp.MustCompile(`"optionalDependencies"\s*:\s*\{[^{}]*\}`)
	cargoVersionRe   = regexp.MustCompile(`(?m)^(version\s*=\s*")[^"]*(")`)
)

// Site is one place the version string is recorded.
type Site struct {
	File    string
	Field   string
	Version string
}

func (s Site) String() string {
	return fmt.Sprintf("%s %s = %s", s.File, s.Field, s.Version)
}

// PlatformPackages lists the optional package names pinned in package.json.
func PlatformPackages(prefix string) []string {
	keys := platform.Supported()
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = prefix + "-" + key.String()
	}
	return names
}

type packageManifest struct {
	Version              string            `json:"version"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

type cargoManifest struct {
	Package struct {
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	} `toml:"workspace"`
}

// CurrentVersion reads the top-level version from package.json.
func CurrentVersion(root string) (string, error) {
	manifest, err := readPackageManifest(root)
	if err != nil {
		return "", err
	}
	if manifest.Version == "" {
		return "", fmt.Errorf("%s has no version field", PackageJSON)
	}
	return manifest.Version, nil
}

func readPackageManifest(root string) (*packageManifest, error) {
	data, err := os.ReadFile(filepath.Join(root, PackageJSON))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PackageJSON, err)
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PackageJSON, err)
	}
	return &manifest, nil
}

// Sites reads every recorded version. Pins absent from package.json are
// skipped; a missing Cargo.toml is an error.
func Sites(root, prefix string) ([]Site, error) {
	manifest, err := readPackageManifest(root)
	if err != nil {
		return nil, err
	}

	sites := []Site{{File: PackageJSON, Field: "version", Version: manifest.Version}}
	for _, name := range PlatformPackages(prefix) {
		if pin, ok := manifest.OptionalDependencies[name]; ok {
			sites = append(sites, Site{File: PackageJSON, Field: "optionalDependencies." + name, Version: pin})
		}
	}

	data, err := os.ReadFile(filepath.Join(root, CargoToml))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CargoToml, err)
	}
	var cargo cargoManifest
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, fmt.Errorf("parse %s: %w", CargoToml, err)
	}
	switch {
	case cargo.Package.Version != "":
		sites = append(sites, Site{File: CargoToml, Field: "package.version", Version: cargo.Package.Version})
	case cargo.Workspace.Package.Version != "":
		sites = append(sites, Site{File: CargoToml, Field: "workspace.package.version", Version: cargo.Workspace.Package.Version})
	default:
		return nil, fmt.Errorf("%s has no package version", CargoToml)
	}

	return sites, nil
}

// Check returns the sites whose version differs from want.
func Check(root, prefix, want string) ([]Site, error) {
	sites, err := Sites(root, prefix)
	if err != nil {
		return nil, err
	}
	var mismatched []Site
	for _, site := range sites {
		if site.Version != want {
			mismatched = append(mismatched, site)
		}
	}
	return mismatched, nil
}

// SyncResult reports what Sync changed.
type SyncResult struct {
	Pins []string // optional package pins rewritten
}

// Sync writes version into every site by textual replacement, leaving the
// rest of both files byte-for-byte unchanged.
func Sync(root, prefix, version string) (*SyncResult, error) {
	if err := ValidateVersion(version); err != nil {
		return nil, err
	}

	pkgPath := filepath.Join(root, PackageJSON)
	pkgData, err := os.ReadFile(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PackageJSON, err)
	}
	pkg, pins, err := rewritePackageJSON(string(pkgData), prefix, version)
	if err != nil {
		return nil, err
	}

	cargoPath := filepath.Join(root, CargoToml)
	cargoData, err := os.ReadFile(cargoPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CargoToml, err)
	}
	cargo, err := rewriteCargoToml(string(cargoData), version)
	if err != nil {
		return nil, err
	}

	// Both files are staged before either is replaced.
	pkgTmp, err := stageKeepingMode(pkgPath, pkg)
	if err != nil {
		return nil, err
	}
	defer os.Remove(pkgTmp)
	cargoTmp, err := stageKeepingMode(cargoPath, cargo)
	if err != nil {
		return nil, err
	}
	defer os.Remove(cargoTmp)

	if err := renameFile(pkgTmp, pkgPath); err != nil {
		return nil, fmt.Errorf("write %s: %w", PackageJSON, err)
	}
	if err := renameFile(cargoTmp, cargoPath); err != nil {
		if restoreErr := restoreFile(pkgPath, pkgData); restoreErr != nil {
			return nil, fmt.Errorf("write %s: %w (restoring %s failed: %v)", CargoToml, err, PackageJSON, restoreErr)
		}
		return nil, fmt.Errorf("write %s: %w", CargoToml, err)
	}

	return &SyncResult{Pins: pins}, nil
}

func rewritePackageJSON(content, prefix, version string) (string, []string, error) {
	loc := packageVersionRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", nil, fmt.Errorf("%s: top-level version field not found", PackageJSON)
	}
	content = content[:loc[3]] + version + content[loc[4]:]

	block := optionalDepsRe.FindStringIndex(content)
	if block == nil {
		return content, nil, nil
	}

	deps := content[block[0]:block[1]]
	var pins []string
	for _, name := range PlatformPackages(prefix) {
		re := regexp.MustCompile(`("` + regexp.QuoteMeta(name) + `"\s*:\s*")[^"]*(")`)
		if !re.MatchString(deps) {
			continue
		}
		deps = re.ReplaceAllString(deps, "${1}"+version+"${2}")
		pins = append(pins, name)
	}

	return content[:block[0]] + deps + content[block[1]:], pins, nil
}

// rewriteCargoToml replaces the first top-level version assignment only;
// dependency tables carry their own version keys further down.
func rewriteCargoToml(content, version string) (string, error) {
	loc := cargoVersionRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", fmt.Errorf("%s: version field not found", CargoToml)
	}
	return content[:loc[3]] + version + content[loc[4]:], nil
}

// renameFile is swapped in tests to simulate a failed replace.
var renameFile = os.Rename

// stageKeepingMode writes content to a temporary file next to path with
// path's permissions and returns the temporary file's name.
func stageKeepingMode(path, content string) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	return tmpPath, nil
}

// restoreFile puts original content back at path.
func restoreFile(path string, original []byte) error {
	tmpPath, err := stageKeepingMode(path, string(original))
	if err != nil {
		return err
	}
	if err := renameFile(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
