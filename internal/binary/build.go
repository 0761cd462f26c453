package binary

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/wangnov/gewe-notice-shim/internal/config"
)

// CommandSpec describes one external command invocation.
type CommandSpec struct {
	Name   string
	Args   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer // nil discards
	Stderr io.Writer // nil discards
}

// CommandRunner runs external commands to completion.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts the command and waits for it.
func (ExecRunner) Run(ctx context.Context, spec CommandSpec) error {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	return cmd.Run()
}

// Toolchain drives the source-build fallback.
type Toolchain struct {
	build  config.BuildConfig
	runner CommandRunner
}

// NewToolchain creates a toolchain for the given build config. A nil runner
// uses ExecRunner.
func NewToolchain(build config.BuildConfig, runner CommandRunner) *Toolchain {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Toolchain{build: build, runner: runner}
}

// Probe runs the tool's version command with all output discarded. Any
// failure, including a missing executable, means unavailable.
func (t *Toolchain) Probe(ctx context.Context) error {
	err := t.runner.Run(ctx, CommandSpec{
		Name: t.build.Tool,
		Args: t.build.ProbeArgs,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolchainUnavailable, t.build.Tool, err)
	}
	return nil
}

// Build runs the release build in root and blocks until it finishes. The
// tool's own output goes to stdout and stderr unchanged.
func (t *Toolchain) Build(ctx context.Context, root string, stdin io.Reader, stdout, stderr io.Writer) error {
	err := t.runner.Run(ctx, CommandSpec{
		Name:   t.build.Tool,
		Args:   t.build.Args,
		Dir:    root,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return nil
}

// ArtifactPath returns where a successful build leaves fileName.
func (t *Toolchain) ArtifactPath(root, fileName string) string {
	return filepath.Join(root, filepath.FromSlash(t.build.OutputDir), fileName)
}
