//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// caughtSignals are intercepted for the lifetime of the child and all of
// them are forwarded. A supervisor signaling only the launcher's pid must
// still reach the child.
var caughtSignals = []os.Signal{syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP}

// shouldForward reports whether sig must be sent to the child explicitly.
func shouldForward(os.Signal) bool {
	return true
}
