package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Installer resolves, fetches or builds, and places the platform binary.
type Installer struct {
	root      string
	cfg       *config.Config
	detector  platform.Detector
	locator   *Locator
	toolchain *Toolchain
	verifier  *Verifier
	logger    config.Logger
	status    io.Writer
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// Options holds configuration for the installer
type Options struct {
	// Root is the package root (required).
	Root string
	// Config describes the binary; nil uses config.Default().
	Config *config.Config
	// Detector reports the host; nil uses platform.NewDetector().
	Detector platform.Detector
	// Logger receives diagnostics; nil discards them.
	Logger config.Logger
	// Status receives the operator-facing progress lines; nil discards them.
	Status io.Writer
	// BuildStdin, BuildStdout and BuildStderr are handed to the build tool.
	// nil falls back to the process's own streams.
	BuildStdin  io.Reader
	BuildStdout io.Writer
	BuildStderr io.Writer
	// Runner executes the toolchain; nil uses ExecRunner.
	Runner CommandRunner
	// NodePath lists extra package directories; nil reads NODE_PATH.
	NodePath []string
}

// NewInstaller creates a new installer
func NewInstaller(opts Options) (*Installer, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("Root is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	nodePath := opts.NodePath
	if nodePath == nil {
		nodePath = NodePathFromEnv()
	}

	inst := &Installer{
		root:      opts.Root,
		cfg:       cfg,
		detector:  opts.Detector,
		locator:   NewLocator(opts.Root, nodePath),
		toolchain: NewToolchain(cfg.Build, opts.Runner),
		logger:    opts.Logger,
		status:    opts.Status,
		stdin:     opts.BuildStdin,
		stdout:    opts.BuildStdout,
		stderr:    opts.BuildStderr,
	}

	if inst.detector == nil {
		inst.detector = platform.NewDetector()
	}
	if inst.logger == nil {
		inst.logger = config.NopLogger()
	}
	if inst.status == nil {
		inst.status = io.Discard
	}
	if inst.stdin == nil {
		inst.stdin = os.Stdin
	}
	if inst.stdout == nil {
		inst.stdout = os.Stdout
	}
	if inst.stderr == nil {
		inst.stderr = os.Stderr
	}
	if cfg.Verify.Keyring != "" {
		inst.verifier = NewVerifier(filepath.Join(opts.Root, filepath.FromSlash(cfg.Verify.Keyring)))
	}

	return inst, nil
}

func (i *Installer) statusf(format string, args ...any) {
	fmt.Fprintf(i.status, format+"\n", args...)
}

// TargetPath returns the path Install writes for key.
func (i *Installer) TargetPath(key platform.Key) string {
	return TargetPath(i.root, i.cfg.Binary, key)
}

// Install runs the whole resolution chain. It never skips because a binary
// is already present.
func (i *Installer) Install(ctx context.Context) (*InstallResult, error) {
	startTime := time.Now()

	key, info, err := platform.Current(ctx, i.detector)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("resolved platform", "key", key, "goos", info.OS, "goarch", info.Arch, "distro", info.Platform)

	target := i.TargetPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("create bin dir: %w", err)
	}

	fileName := platform.BinaryFileName(i.cfg.Binary, key)
	pkgName := i.cfg.PackageName(key)
	var causes []error

	verified, err := i.installFromPackage(pkgName, fileName, target, key)
	if err == nil {
		i.statusf("Successfully installed %s for %s", i.cfg.Binary, key)
		return &InstallResult{
			Platform: key,
			Source:   SourcePlatformPackage,
			Package:  pkgName,
			Path:     target,
			Verified: verified,
			Duration: time.Since(startTime),
		}, nil
	}
	causes = append(causes, err)
	if !errors.Is(err, ErrPackageUnavailable) {
		i.statusf("Could not use pre-built binary from %s: %v", pkgName, err)
	}

	i.statusf("Pre-built binary not found, attempting to build from source...")
	if err := i.installFromSource(ctx, fileName, target, key); err != nil {
		i.logger.Error("build from source failed", "error", err)
		i.statusf("Failed to build from source: %v", err)
		causes = append(causes, err)
		return nil, &NoBinaryError{
			Binary:    i.cfg.Binary,
			Package:   pkgName,
			BuildTool: i.cfg.Build.Tool,
			Platform:  key,
			Causes:    causes,
		}
	}

	i.statusf("Successfully built and installed %s", i.cfg.Binary)
	return &InstallResult{
		Platform: key,
		Source:   SourceBuild,
		Path:     target,
		Duration: time.Since(startTime),
	}, nil
}

// installFromPackage copies the binary out of the optional platform
// package. ErrPackageUnavailable covers both "not installed" and
// "installed without the binary".
func (i *Installer) installFromPackage(pkgName, fileName, target string, key platform.Key) (VerificationMethod, error) {
	lookup := i.locator.Lookup(pkgName, fileName)
	i.logger.Debug("looked up platform package",
		"package", pkgName, "state", lookup.State, "dir", lookup.Dir, "searched", lookup.Searched)

	switch lookup.State {
	case PackageUnresolved:
		return VerificationNone, fmt.Errorf("%w: %s is not installed (searched %s)",
			ErrPackageUnavailable, pkgName, strings.Join(lookup.Searched, string(os.PathListSeparator)))
	case PackageWithoutBinary:
		i.logger.Warn("platform package has no binary", "package", pkgName, "dir", lookup.Dir, "file", fileName)
		return VerificationNone, fmt.Errorf("%w: %s does not contain %s", ErrPackageUnavailable, pkgName, fileName)
	}

	i.warnOnVersionMismatch(lookup)
	i.statusf("Installing %s...", pkgName)

	verified := VerificationNone
	check := func(staged string) error {
		var err error
		verified, err = i.verify(lookup.BinaryPath, staged)
		return err
	}

	if err := installFile(lookup.BinaryPath, target, !key.IsWindows(), check); err != nil {
		if errors.Is(err, ErrSignature) {
			return VerificationNone, err
		}
		return VerificationNone, fmt.Errorf("install %s: %w", pkgName, err)
	}
	i.logger.Info("installed prebuilt binary", "package", pkgName, "path", target, "verified", verified)

	return verified, nil
}

// verify checks the detached signature shipped next to binaryPath against
// staged, the copy about to be installed, when a keyring is configured.
func (i *Installer) verify(binaryPath, staged string) (VerificationMethod, error) {
	if i.verifier == nil {
		return VerificationNone, nil
	}

	signaturePath := findSignature(binaryPath)
	if signaturePath == "" {
		if i.cfg.Verify.Required {
			return VerificationNone, fmt.Errorf("%w: no signature next to %s", ErrSignature, binaryPath)
		}
		i.logger.Warn("no signature shipped, skipping verification", "binary", binaryPath)
		return VerificationNone, nil
	}

	if err := i.verifier.VerifyDetached(staged, signaturePath); err != nil {
		return VerificationNone, err
	}
	return VerificationGPG, nil
}

// installFromSource probes the toolchain, builds, and copies the artifact.
func (i *Installer) installFromSource(ctx context.Context, fileName, target string, key platform.Key) error {
	if err := i.toolchain.Probe(ctx); err != nil {
		return err
	}

	i.statusf("Building from source with %s...", i.cfg.Build.Tool)
	if err := i.toolchain.Build(ctx, i.root, i.stdin, i.stdout, i.stderr); err != nil {
		return err
	}

	artifact := i.toolchain.ArtifactPath(i.root, fileName)
	if !isRegularFile(artifact) {
		return fmt.Errorf("%w: no artifact at %s", ErrBuildFailed, artifact)
	}

	if err := installFile(artifact, target, !key.IsWindows(), nil); err != nil {
		return fmt.Errorf("install build artifact: %w", err)
	}
	i.logger.Info("installed source build", "artifact", artifact, "path", target)

	return nil
}

// warnOnVersionMismatch logs when the platform package was published for a
// different version than this package.
func (i *Installer) warnOnVersionMismatch(lookup PackageLookup) {
	own, err := readManifestVersion(i.root)
	if err != nil || own == "" || lookup.Version == "" {
		return
	}
	if own != lookup.Version {
		i.logger.Warn("platform package version differs from package version",
			"package", lookup.Name, "package_version", lookup.Version, "expected", own)
	}
}
