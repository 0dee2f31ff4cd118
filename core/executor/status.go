package executor

import (
	"errors"
	"os/exec"
	"syscall"
)

// waitStatus reaps cmd and converts its termination state into a shell-style
// exit code: the process's own status, or 128+signal when the kernel killed
// it. A failure of the wait call itself surfaces as *WaitError.
func waitStatus(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1, &WaitError{Err: err}
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
