package extension

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrNilExtension indicates a nil extension was provided.
	ErrNilExtension = errors.New("extension cannot be nil")
	// ErrEmptyExtensionName indicates an extension without a name.
	ErrEmptyExtensionName = errors.New("extension name cannot be empty")
	// ErrSealed indicates a registration or load after Load has run.
	ErrSealed = errors.New("extensions are already loaded")
	// ErrNoRunE indicates a target command without a RunE to wrap.
	ErrNoRunE = errors.New("command has no RunE to extend")
)

// ExtensionExistsError indicates an extension is already registered.
//
//nolint:revive // Mirrors the registry's naming
type ExtensionExistsError struct {
	Name string
}

func (e *ExtensionExistsError) Error() string {
	return fmt.Sprintf("extension %q already registered", e.Name)
}

// TargetNotFoundError indicates an extension for a command the host lacks.
type TargetNotFoundError struct {
	Extension string
	Command   string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("extension %q targets unknown command %q", e.Extension, e.Command)
}

// ExitError carries a non-zero exit status out of a command without an
// error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the status carried by an ExitError, and false for
// any other error.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
