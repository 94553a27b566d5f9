// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"io"
)

// CommandResult represents the result of executing a captured command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes commands and captures their output.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// ProcessSpec describes a child process that runs attached to the caller's
// terminal rather than having its output captured.
type ProcessSpec struct {
	Command string
	Args    []string
	Dir     string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Argv returns the full argument vector, command first.
func (s ProcessSpec) Argv() []string {
	argv := make([]string, 0, len(s.Args)+1)
	argv = append(argv, s.Command)
	return append(argv, s.Args...)
}

// ProcessLauncher starts interactive child processes and waits for them.
type ProcessLauncher interface {
	// LookPath resolves an executable name the same way Launch would.
	LookPath(name string) (string, error)

	// Launch runs the process to completion and returns its exit code.
	// A non-zero exit is not an error; failing to start the process is.
	Launch(ctx context.Context, spec ProcessSpec) (int, error)
}
