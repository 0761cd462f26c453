package release

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
)

// fakeGit records the release operations.
type fakeGit struct {
	status   string
	staged   bool
	messages []string
	tags     []string
	tagErr   error
}

func (f *fakeGit) Status(ctx context.Context) (string, bool, error) {
	return f.status, f.status == "", nil
}

func (f *fakeGit) StageAll(ctx context.Context) error {
	f.staged = true
	return nil
}

func (f *fakeGit) Commit(ctx context.Context, msg string) (string, error) {
	f.messages = append(f.messages, msg)
	return "abc123", nil
}

func (f *fakeGit) Tag(ctx context.Context, name string) error {
	if f.tagErr != nil {
		return f.tagErr
	}
	f.tags = append(f.tags, name)
	return nil
}

// recordingRunner captures commands and returns err for each.
type recordingRunner struct {
	specs []binary.CommandSpec
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, spec binary.CommandSpec) error {
	r.specs = append(r.specs, spec)
	return r.err
}

func TestReleaser_Run(t *testing.T) {
	tests := []struct {
		name       string
		confirm    func(string) (bool, error)
		wantCommit bool
	}{
		{name: "non-interactive makes no commit", confirm: nil},
		{name: "declined", confirm: func(string) (bool, error) { return false, nil }},
		{name: "accepted", confirm: func(string) (bool, error) { return true, nil }, wantCommit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeManifests(t, testPackageJSON, testCargoToml)
			g := &fakeGit{status: " M package.json\n M Cargo.toml\n"}
			runner := &recordingRunner{}
			var out bytes.Buffer

			r, err := NewReleaser(Options{Root: root, Out: &out, Git: g, Runner: runner, Confirm: tt.confirm})
			if err != nil {
				t.Fatal(err)
			}

			outcome, err := r.Run(context.Background(), BumpPatch, "")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if outcome.Previous != "0.1.4" || outcome.Version != "0.1.5" {
				t.Errorf("outcome = %+v, want 0.1.4 -> 0.1.5", outcome)
			}

			if len(runner.specs) != 1 || !slices.Equal(runner.specs[0].Args, []string{"update", "--workspace"}) {
				t.Errorf("cargo calls = %+v, want one cargo update --workspace", runner.specs)
			}
			if runner.specs[0].Dir != root {
				t.Errorf("cargo ran in %q, want %q", runner.specs[0].Dir, root)
			}

			for _, want := range []string{
				"Updating version: 0.1.4 -> 0.1.5",
				"gewe-notice-mcp-win32-x64: 0.1.5",
				"M package.json",
				`git commit -am "chore: bump version to 0.1.5"`,
				"git tag v0.1.5",
			} {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}

			if tt.wantCommit {
				if !g.staged || !slices.Equal(g.messages, []string{"chore: bump version to 0.1.5"}) || !slices.Equal(g.tags, []string{"v0.1.5"}) {
					t.Errorf("git ops = staged %v, commits %v, tags %v", g.staged, g.messages, g.tags)
				}
				if outcome.Tag != "v0.1.5" || outcome.Committed != "abc123" {
					t.Errorf("outcome = %+v", outcome)
				}
			} else if g.staged || len(g.messages) > 0 || len(g.tags) > 0 {
				t.Errorf("no git side effects expected, got staged %v, commits %v, tags %v", g.staged, g.messages, g.tags)
			}
		})
	}
}

func TestReleaser_ExplicitVersionAndSkipCargo(t *testing.T) {
	root := writeManifests(t, testPackageJSON, testCargoToml)
	runner := &recordingRunner{}

	r, err := NewReleaser(Options{Root: root, Git: &fakeGit{}, Runner: runner, SkipCargo: true})
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := r.Run(context.Background(), BumpPatch, "1.0.0")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", outcome.Version)
	}
	if len(runner.specs) != 0 {
		t.Errorf("cargo should be skipped, got %d calls", len(runner.specs))
	}
	if mismatched, _ := Check(root, "gewe-notice-mcp", "1.0.0"); len(mismatched) != 0 {
		t.Errorf("manifests out of sync:\n%s", FormatMismatches(mismatched))
	}
}

func TestReleaser_CargoFailureOnlyWarns(t *testing.T) {
	root := writeManifests(t, testPackageJSON, testCargoToml)
	var out bytes.Buffer

	r, err := NewReleaser(Options{
		Root:   root,
		Out:    &out,
		Git:    &fakeGit{},
		Runner: &recordingRunner{err: errors.New("cargo: not found")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Run(context.Background(), BumpMinor, ""); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Could not update Cargo.lock") {
		t.Errorf("output missing cargo warning:\n%s", out.String())
	}
}

func TestReleaser_InvalidExplicitVersion(t *testing.T) {
	root := writeManifests(t, testPackageJSON, testCargoToml)

	r, err := NewReleaser(Options{Root: root, Git: &fakeGit{}, Runner: &recordingRunner{}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Run(context.Background(), BumpPatch, "1.0"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Run() error = %v, want ErrInvalidVersion", err)
	}
	if got := readFile(t, root, PackageJSON); got != testPackageJSON {
		t.Error("package.json must be untouched")
	}
}

func TestReleaser_TagFailure(t *testing.T) {
	root := writeManifests(t, testPackageJSON, testCargoToml)
	tagErr := errors.New("tag already exists")

	r, err := NewReleaser(Options{
		Root:    root,
		Git:     &fakeGit{tagErr: tagErr},
		Runner:  &recordingRunner{},
		Confirm: func(string) (bool, error) { return true, nil },
	})
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := r.Run(context.Background(), BumpPatch, "")
	if !errors.Is(err, tagErr) {
		t.Fatalf("Run() error = %v, want %v", err, tagErr)
	}
	if outcome.Committed == "" || outcome.Tag != "" {
		t.Errorf("outcome = %+v, want committed but untagged", outcome)
	}
}

func TestNewReleaser_RequiresRoot(t *testing.T) {
	if _, err := NewReleaser(Options{}); err == nil {
		t.Error("expected error without Root")
	}
}
