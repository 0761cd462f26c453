//go:build windows

package launcher

import "os"

// exitStatus maps a finished child to the launcher's exit code.
func exitStatus(state *os.ProcessState) (int, os.Signal) {
	return state.ExitCode(), nil
}
