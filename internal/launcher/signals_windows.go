//go:build windows

package launcher

import "os"

// caughtSignals are intercepted for the lifetime of the child. The console
// delivers Ctrl+C to every attached process, the child included.
var caughtSignals = []os.Signal{os.Interrupt}

// shouldForward reports whether sig must be sent to the child explicitly.
// Windows cannot deliver os.Interrupt to another process.
func shouldForward(os.Signal) bool {
	return false
}
