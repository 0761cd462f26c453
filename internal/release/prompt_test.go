package release

import (
	"os"
	"testing"

	"github.com/manifoldco/promptui"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		runErr  error
		want    bool
		wantErr bool
	}{
		{name: "yes", want: true},
		{name: "no", runErr: promptui.ErrAbort, want: false},
		{name: "interrupted", runErr: promptui.ErrInterrupt, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := promptUIRunner
			t.Cleanup(func() { promptUIRunner = orig })

			var gotPrompt promptui.Prompt
			promptUIRunner = func(p promptui.Prompt) (string, error) {
				gotPrompt = p
				return "", tt.runErr
			}

			got, err := Confirm("Commit and tag automatically")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Confirm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !gotPrompt.IsConfirm {
				t.Error("prompt should be a confirmation")
			}
		})
	}
}

func TestIsInteractive(t *testing.T) {
	t.Run("CI set", func(t *testing.T) {
		t.Setenv(EnvCI, "true")
		if IsInteractive(os.Stdout) {
			t.Error("IsInteractive() = true with CI=true")
		}
	})

	t.Run("not a terminal", func(t *testing.T) {
		t.Setenv(EnvCI, "")
		f, err := os.CreateTemp(t.TempDir(), "out")
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if IsInteractive(f) {
			t.Error("IsInteractive() = true for a regular file")
		}
	})

	t.Run("nil", func(t *testing.T) {
		if IsInteractive(nil) {
			t.Error("IsInteractive(nil) = true")
		}
	})
}

func TestIsTruthyEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Setenv("GEWE_TEST_TRUTHY", tt.value)
		if got := isTruthyEnv("GEWE_TEST_TRUTHY"); got != tt.want {
			t.Errorf("isTruthyEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

