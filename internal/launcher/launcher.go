// Package launcher runs the installed binary as a transparent child
// process and relays its exit status.
//
// The child gets the launcher's arguments, environment and standard
// streams unchanged. The launcher itself never writes to stdout; its own
// diagnostics go to stderr and only when the child cannot be started.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"

	"github.com/wangnov/gewe-notice-shim/internal/binary"
	"github.com/wangnov/gewe-notice-shim/internal/config"
	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// ExitLaunchFailure is the exit code used when the child never ran.
const ExitLaunchFailure = 1

// ErrBinaryMissing means the installed binary is not at its fixed path.
var ErrBinaryMissing = errors.New("binary not found")

// Result is the outcome of one Run.
type Result struct {
	// ExitCode is what the launcher process should exit with.
	ExitCode int
	// Signal is set when the child was terminated by a signal.
	Signal os.Signal
	// Err is set when the child could not be started or waited for.
	Err error
}

// Options configures a Launcher.
type Options struct {
	// Root is the package root (required).
	Root string
	// Binary is the executable name without suffix; empty uses the default.
	Binary string
	// Key selects the file name; it must come from platform.Current.
	Key platform.Key
	// Stdin, Stdout and Stderr are handed to the child. nil uses the
	// process's own streams.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	// Diagnostics receives the launcher's own error messages; nil uses
	// os.Stderr.
	Diagnostics io.Writer
	// Logger receives debug output; nil discards it.
	Logger config.Logger
}

// Launcher starts the installed binary.
type Launcher struct {
	path        string
	binary      string
	stdin       *os.File
	stdout      *os.File
	stderr      *os.File
	diagnostics io.Writer
	logger      config.Logger
}

// New creates a launcher for the binary installed under opts.Root.
func New(opts Options) *Launcher {
	l := &Launcher{
		binary:      opts.Binary,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		diagnostics: opts.Diagnostics,
		logger:      opts.Logger,
	}
	if l.binary == "" {
		l.binary = config.DefaultBinary
	}
	l.path = binary.TargetPath(opts.Root, l.binary, opts.Key)

	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.diagnostics == nil {
		l.diagnostics = os.Stderr
	}
	if l.logger == nil {
		l.logger = config.NopLogger()
	}
	return l
}

// Path returns the binary the launcher runs.
func (l *Launcher) Path() string {
	return l.path
}

// Run starts the binary with args and env, waits for it, and returns the
// exit code to relay. It blocks for the lifetime of the child.
func (l *Launcher) Run(args, env []string) Result {
	cmd := exec.Command(l.path, args...)
	cmd.Env = env
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	// Catch before starting so an early interrupt cannot kill the launcher
	// while the child survives.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, caughtSignals...)
	defer signal.Stop(sigc)

	if err := cmd.Start(); err != nil {
		return l.startFailed(err)
	}
	l.logger.Debug("started child", "path", l.path, "pid", cmd.Process.Pid, "args", len(args))

	done := make(chan struct{})
	defer close(done)
	go relaySignals(cmd.Process, sigc, done, l.logger)

	err := cmd.Wait()
	if err == nil {
		return Result{ExitCode: 0}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code, sig := exitStatus(exitErr.ProcessState)
		l.logger.Debug("child exited", "code", code, "signal", sig)
		return Result{ExitCode: code, Signal: sig}
	}

	fmt.Fprintf(l.diagnostics, "Failed to wait for %s: %v\n", l.binary, err)
	return Result{ExitCode: ExitLaunchFailure, Err: err}
}

func (l *Launcher) startFailed(err error) Result {
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(l.diagnostics, `
Binary not found at %s

Please try reinstalling the package:
  npm install %s

If the problem persists, visit %s for help.
`, l.path, config.DefaultPackagePrefix, config.ProjectURL)
		return Result{
			ExitCode: ExitLaunchFailure,
			Err:      fmt.Errorf("%w: %s", ErrBinaryMissing, l.path),
		}
	}

	fmt.Fprintf(l.diagnostics, "Failed to start %s: %v\n", l.binary, err)
	return Result{ExitCode: ExitLaunchFailure, Err: fmt.Errorf("start %s: %w", l.path, err)}
}

// relaySignals forwards caught signals to the child until done is closed.
// The launcher itself stays alive so it can report the child's status.
func relaySignals(proc *os.Process, sigc <-chan os.Signal, done <-chan struct{}, logger config.Logger) {
	for {
		select {
		case sig := <-sigc:
			if !shouldForward(sig) {
				logger.Debug("signal not forwardable on this platform", "signal", sig)
				continue
			}
			if err := proc.Signal(sig); err != nil {
				logger.Debug("forward signal", "signal", sig, "error", err)
			}
		case <-done:
			return
		}
	}
}
