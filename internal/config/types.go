package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Config describes the managed binary and how to obtain it.
type Config struct {
	// Binary is the executable name without the platform suffix.
	Binary string `json:"binary"`

	// PackagePrefix is the base name of the optional per-platform packages
	// ("<prefix>-<platform-key>").
	PackagePrefix string `json:"package_prefix"`

	// Build configures the source-build fallback.
	Build BuildConfig `json:"build"`

	// Verify configures the optional signature check of prebuilt binaries.
	Verify VerifyConfig `json:"verify,omitempty"`
}

// BuildConfig configures the native toolchain used as a fallback.
type BuildConfig struct {
	Tool      string   `json:"tool"`
	ProbeArgs []string `json:"probe_args"`
	Args      []string `json:"args"`
	// OutputDir is relative to the package root.
	OutputDir string `json:"output_dir"`
}

// VerifyConfig configures detached-signature verification.
type VerifyConfig struct {
	// Keyring is an OpenPGP public keyring, relative to the package root.
	Keyring string `json:"keyring,omitempty"`
	// Required rejects prebuilt binaries that ship without a signature.
	Required bool `json:"required,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Binary:        DefaultBinary,
		PackagePrefix: DefaultPackagePrefix,
		Build: BuildConfig{
			Tool:      DefaultBuildTool,
			ProbeArgs: []string{"--version"},
			Args:      []string{"build", "--release"},
			OutputDir: DefaultOutputDir,
		},
	}
}

// PackageName returns the optional package that carries the binary for key.
func (c *Config) PackageName(key platform.Key) string {
	return c.PackagePrefix + "-" + key.String()
}

// Validate checks the config for values that would escape the package root
// or make the install chain meaningless.
func (c *Config) Validate() error {
	if err := validateName("binary", c.Binary); err != nil {
		return err
	}
	if err := validateName("package_prefix", c.PackagePrefix); err != nil {
		return err
	}
	if strings.TrimSpace(c.Build.Tool) == "" {
		return errors.New("build.tool cannot be empty")
	}
	if len(c.Build.Args) == 0 {
		return errors.New("build.args cannot be empty")
	}
	if !filepath.IsLocal(filepath.FromSlash(c.Build.OutputDir)) {
		return fmt.Errorf("build.output_dir must be a relative path inside the package: %q", c.Build.OutputDir)
	}
	if c.Verify.Keyring != "" && !filepath.IsLocal(filepath.FromSlash(c.Verify.Keyring)) {
		return fmt.Errorf("verify.keyring must be a relative path inside the package: %q", c.Verify.Keyring)
	}
	if c.Verify.Required && c.Verify.Keyring == "" {
		return errors.New("verify.required needs verify.keyring")
	}
	return nil
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		return fmt.Errorf("%s must be a bare name, got %q", field, value)
	}
	return nil
}
