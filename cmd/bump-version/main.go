// Command bump-version keeps the release version identical across
// package.json, its platform package pins and Cargo.toml.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/release"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	root      string
	yes       bool
	skipCargo bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bump-version [patch|minor|major]",
		Short: "Bump and synchronize the release version",
		Long: `Bump the version in package.json, every platform package pin in its
optionalDependencies, and Cargo.toml, then refresh Cargo.lock.

When stdout is a terminal and CI is not set, offers to commit and tag.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := release.BumpPatch
			if len(args) == 1 {
				var err error
				if kind, err = release.ParseBumpKind(args[0]); err != nil {
					return err
				}
			}
			return runBump(cmd, opts, kind, "")
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.root, "root", ".", "repository root holding package.json and Cargo.toml")
	root.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "commit and tag without asking")
	root.PersistentFlags().BoolVar(&opts.skipCargo, "skip-cargo", false, "do not run cargo update")

	root.AddCommand(newSetCmd(opts))
	root.AddCommand(newCheckCmd(opts))

	return root
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <major.minor.patch>",
		Short: "Set an explicit version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd, opts, release.BumpPatch, args[0])
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every manifest records the same version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(opts.root)
			if err != nil {
				return err
			}
			current, err := release.CurrentVersion(root)
			if err != nil {
				return err
			}
			mismatched, err := release.Check(root, config.DefaultPackagePrefix, current)
			if err != nil {
				return err
			}
			if len(mismatched) > 0 {
				return fmt.Errorf("versions differ from %s:\n%s", current, release.FormatMismatches(mismatched))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All manifests at %s\n", current)
			return nil
		},
	}
}

func runBump(cmd *cobra.Command, opts *rootOptions, kind release.BumpKind, explicit string) error {
	root, err := filepath.Abs(opts.root)
	if err != nil {
		return err
	}

	var confirm func(string) (bool, error)
	switch {
	case opts.yes:
		confirm = func(string) (bool, error) { return true, nil }
	case release.IsInteractive(os.Stdout):
		confirm = release.Confirm
	}

	r, err := release.NewReleaser(release.Options{
		Root:      root,
		Out:       cmd.OutOrStdout(),
		SkipCargo: opts.skipCargo,
		Confirm:   confirm,
		Logger:    config.LoggerFromEnv("warn"),
	})
	if err != nil {
		return err
	}

	_, err = r.Run(cmd.Context(), kind, explicit)
	return err
}
