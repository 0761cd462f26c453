// Command gewe-notice-mcp is the entry point package managers link onto
// PATH. It runs the binary placed by gewe-notice-install with the same
// arguments, environment and standard streams, and exits with its status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/launcher"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// newDetector is swapped in tests to simulate other hosts.
var newDetector = platform.NewDetector

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stderr))
}

// run never parses args; every argument belongs to the child. stderr
// receives the launcher's own diagnostics.
func run(args, env []string, stderr io.Writer) int {
	// Warn by default: anything on stderr is visible to MCP clients.
	logger := config.LoggerFromEnv("warn")
	ctx := context.Background()

	root, err := binary.PackageRoot()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return launcher.ExitLaunchFailure
	}

	detector := newDetector()
	key, _, err := platform.Current(ctx, detector)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return launcher.ExitLaunchFailure
	}

	cfg, err := config.Load(ctx, root, detector)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", config.FormatError(err, false))
		return launcher.ExitLaunchFailure
	}

	l := launcher.New(launcher.Options{
		Root:        root,
		Binary:      cfg.Binary,
		Key:         key,
		Diagnostics: stderr,
		Logger:      logger,
	})
	logger.Debug("launching", "path", l.Path(), "platform", key)

	result := l.Run(args, env)
	if result.Err != nil {
		logger.Debug("launch failed", "error", result.Err)
	}
	return result.ExitCode
}
