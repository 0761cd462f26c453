package release

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/git"
)

// Options configures a Releaser.
type Options struct {
	// Root is the repository root holding both manifests (required).
	Root string
	// Prefix is the optional package base name; empty uses the default.
	Prefix string
	// Out receives progress and next-step output.
	Out io.Writer
	// Git performs status, commit and tag; nil uses a go-git client on Root.
	Git git.Git
	// Runner runs cargo; nil uses binary.ExecRunner.
	Runner binary.CommandRunner
	// SkipCargo skips refreshing Cargo.lock.
	SkipCargo bool
	// Confirm decides whether to commit and tag. nil never does.
	Confirm func(label string) (bool, error)
	// Logger receives warnings; nil discards them.
	Logger config.Logger
}

// Releaser runs one version bump.
type Releaser struct {
	opts Options
}

// Outcome summarizes a bump.
type Outcome struct {
	Previous  string
	Version   string
	Pins      []string
	Committed string // commit hash, empty when not committed
	Tag       string // tag name, empty when not tagged
}

// NewReleaser creates a releaser with defaults filled in.
func NewReleaser(opts Options) (*Releaser, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("Root is required")
	}
	if opts.Prefix == "" {
		opts.Prefix = config.DefaultPackagePrefix
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Git == nil {
		opts.Git = git.NewClient(opts.Root)
	}
	if opts.Runner == nil {
		opts.Runner = binary.ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = config.NopLogger()
	}
	return &Releaser{opts: opts}, nil
}

func (r *Releaser) printf(format string, args ...any) {
	fmt.Fprintf(r.opts.Out, format, args...)
}

// Next computes the target version: explicit when set, else current bumped
// by kind.
func (r *Releaser) Next(kind BumpKind, explicit string) (current, next string, err error) {
	current, err = CurrentVersion(r.opts.Root)
	if err != nil {
		return "", "", err
	}
	if explicit != "" {
		if err := ValidateVersion(explicit); err != nil {
			return "", "", err
		}
		return current, explicit, nil
	}
	next, err = Bump(current, kind)
	if err != nil {
		return "", "", err
	}
	return current, next, nil
}

// Run bumps the version everywhere, refreshes Cargo.lock, shows the
// working tree status, and commits and tags when Confirm agrees.
func (r *Releaser) Run(ctx context.Context, kind BumpKind, explicit string) (*Outcome, error) {
	current, next, err := r.Next(kind, explicit)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Previous: current, Version: next}

	r.printf("Updating version: %s -> %s\n\n", current, next)

	result, err := Sync(r.opts.Root, r.opts.Prefix, next)
	if err != nil {
		return nil, fmt.Errorf("sync manifests: %w", err)
	}
	out.Pins = result.Pins
	r.printf("Updated %s version\n", PackageJSON)
	for _, pin := range result.Pins {
		r.printf("  %s: %s\n", pin, next)
	}
	r.printf("Updated %s version\n\n", CargoToml)

	if !r.opts.SkipCargo {
		r.updateLockfile(ctx)
	}

	r.printStatus(ctx)
	r.printNextSteps(next)

	if r.opts.Confirm == nil {
		return out, nil
	}
	ok, err := r.opts.Confirm("Commit and tag automatically")
	if err != nil {
		return out, fmt.Errorf("prompt: %w", err)
	}
	if !ok {
		return out, nil
	}

	if err := r.opts.Git.StageAll(ctx); err != nil {
		return out, err
	}
	hash, err := r.opts.Git.Commit(ctx, CommitMessage(next))
	if err != nil {
		return out, err
	}
	out.Committed = hash

	tag := TagName(next)
	if err := r.opts.Git.Tag(ctx, tag); err != nil {
		return out, err
	}
	out.Tag = tag

	r.printf("\nCreated commit and tag %s\n", tag)
	r.printf("Run \"git push && git push --tags\" to publish\n")
	return out, nil
}

// updateLockfile runs cargo update for the workspace. Failure only warns.
func (r *Releaser) updateLockfile(ctx context.Context) {
	r.printf("Updating Cargo.lock...\n")
	err := r.opts.Runner.Run(ctx, binary.CommandSpec{
		Name:   config.DefaultBuildTool,
		Args:   []string{"update", "--workspace"},
		Dir:    r.opts.Root,
		Stdout: r.opts.Out,
		Stderr: r.opts.Out,
	})
	if err != nil {
		r.opts.Logger.Warn("cargo update failed", "error", err)
		r.printf("Could not update Cargo.lock, run \"cargo update --workspace\" manually\n\n")
		return
	}
	r.printf("Updated Cargo.lock\n\n")
}

func (r *Releaser) printStatus(ctx context.Context) {
	status, clean, err := r.opts.Git.Status(ctx)
	if err != nil {
		r.opts.Logger.Warn("git status failed", "error", err)
		return
	}
	r.printf("Changed files:\n")
	if clean {
		r.printf("  (none)\n")
		return
	}
	for _, line := range strings.Split(strings.TrimRight(status, "\n"), "\n") {
		r.printf("  %s\n", line)
	}
}

func (r *Releaser) printNextSteps(version string) {
	r.printf(`
Version updated to %s

Next steps:
1. Review the changes: git diff
2. Commit: git commit -am "%s"
3. Tag: git tag %s
4. Push: git push && git push --tags
`, version, CommitMessage(version), TagName(version))
}

// CommitMessage is the message used for release commits.
func CommitMessage(version string) string {
	return "chore: bump version to " + version
}

// TagName is the tag created for version.
func TagName(version string) string {
	return "v" + version
}
