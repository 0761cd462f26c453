// Command gewe-notice-install places the gewe-notice-mcp binary for this
// host into the package's bin directory. Package managers run it as the
// postinstall hook.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.4"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("gewe-notice-install", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	root := flags.String("root", "", "package root (default: $"+config.EnvRoot+" or the executable's directory)")
	verbose := flags.BoolP("verbose", "v", false, "show technical details of config errors")
	showVersion := flags.Bool("version", false, "show version information")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "gewe-notice-install %s\n", Version)
		return nil
	}

	// Interrupt cancels a running source build; there is no other deadline.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	packageRoot := *root
	if packageRoot == "" {
		var err error
		packageRoot, err = binary.PackageRoot()
		if err != nil {
			return fmt.Errorf("locate package root: %w", err)
		}
	}

	logger := config.LoggerFromEnv("info")
	detector := platform.NewDetector()

	cfg, err := config.Load(ctx, packageRoot, detector)
	if err != nil {
		return errors.New(config.FormatError(err, *verbose))
	}

	inst, err := binary.NewInstaller(binary.Options{
		Root:     packageRoot,
		Config:   cfg,
		Detector: detector,
		Logger:   logger,
		Status:   stdout,
	})
	if err != nil {
		return err
	}

	result, err := inst.Install(ctx)
	if err != nil {
		return err
	}

	logger.Debug("install finished",
		"platform", result.Platform,
		"source", result.Source,
		"path", result.Path,
		"verified", result.Verified,
		"duration", result.Duration)
	return nil
}
