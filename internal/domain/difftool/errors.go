package difftool

import (
	"errors"
	"fmt"
)

// ErrNilTool indicates a nil tool was registered.
var ErrNilTool = errors.New("tool cannot be nil")

// ErrEmptyToolName indicates a tool without a name.
var ErrEmptyToolName = errors.New("tool name cannot be empty")

// ToolNotFoundError indicates the tool's executable could not be found.
type ToolNotFoundError struct {
	Name    string
	Command string
	Err     error
}

func (e *ToolNotFoundError) Error() string {
	if e.Name == "" {
		return "no diff tool given"
	}
	if e.Command != "" && e.Command != e.Name {
		return fmt.Sprintf("cannot find diff tool %q (command %q)", e.Name, e.Command)
	}
	return fmt.Sprintf("cannot find diff tool %q", e.Name)
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// IsToolNotFound returns true if the error indicates a missing tool.
func IsToolNotFound(err error) bool {
	var notFound *ToolNotFoundError
	return errors.As(err, &notFound)
}
