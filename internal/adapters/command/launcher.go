package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// RealLauncher runs child processes attached to the terminal.
type RealLauncher struct{}

// NewRealLauncher creates a new RealLauncher.
func NewRealLauncher() *RealLauncher {
	return &RealLauncher{}
}

// LookPath resolves name using PATH, or checks it directly if it contains a separator.
func (l *RealLauncher) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Launch starts the process, waits for it and returns its exit code.
// Unset streams default to the current process's stdio.
func (l *RealLauncher) Launch(ctx context.Context, spec ports.ProcessSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...) //nolint:gosec // argv is built from the user's own --using
	cmd.Dir = spec.Dir
	cmd.Stdin = spec.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = spec.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = spec.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr.ProcessState), nil
	}
	return -1, err
}

// exitStatus maps a process killed by a signal to 128+signal, as shells do.
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

// Ensure RealLauncher implements ports.ProcessLauncher.
var _ ports.ProcessLauncher = (*RealLauncher)(nil)
