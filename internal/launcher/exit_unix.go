//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// exitStatus maps a finished child to the launcher's exit code. A child
// killed by a signal yields 128 plus the signal number, as shells report it.
func exitStatus(state *os.ProcessState) (int, os.Signal) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), ws.Signal()
	}
	return state.ExitCode(), nil
}
