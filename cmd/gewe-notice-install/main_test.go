package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
	"github.com/wangnov/gewe-notice-shim/internal/testutil"
)

func TestRun_InstallsFromPlatformPackage(t *testing.T) {
	key, err := platform.Resolve(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("host is not a supported platform: %v", err)
	}

	root := testutil.SetupTestEnv(t)
	name := config.Default().PackageName(key)
	fileName := platform.BinaryFileName(config.DefaultBinary, key)
	testutil.WritePackage(t, filepath.Join(filepath.Dir(root), name), name, "0.1.4",
		map[string]string{fileName: "prebuilt"})

	var stdout bytes.Buffer
	if err := run([]string{"--root", root}, &stdout); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(binary.TargetPath(root, config.DefaultBinary, key))
	if err != nil {
		t.Fatalf("read installed binary: %v", err)
	}
	if string(data) != "prebuilt" {
		t.Errorf("installed content = %q", data)
	}
	if !strings.Contains(stdout.String(), "Successfully installed") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_RootFromEnv(t *testing.T) {
	key, err := platform.Resolve(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("host is not a supported platform: %v", err)
	}

	root := testutil.SetupTestEnv(t)
	name := config.Default().PackageName(key)
	testutil.WritePackage(t, filepath.Join(filepath.Dir(root), name), name, "0.1.4",
		map[string]string{platform.BinaryFileName(config.DefaultBinary, key): "prebuilt"})

	if err := run(nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(binary.TargetPath(root, config.DefaultBinary, key)); err != nil {
		t.Errorf("binary not installed under %s: %v", root, err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	root := testutil.SetupTestEnv(t)
	testutil.WriteFile(t, root, config.FileName, `shim = { binary = "../x" }`)

	err := run([]string{"--root", root}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestRun_Flags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "version", args: []string{"--version"}, want: "gewe-notice-install " + Version},
		{name: "help", args: []string{"--help"}, want: "--root"},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := run(tt.args, &stdout)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.want)
			}
		})
	}
}
