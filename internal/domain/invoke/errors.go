package invoke

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/domain/staging"
)

// ErrNoSuchEntry indicates a path that does not exist on one side.
var ErrNoSuchEntry = errors.New("no such entry")

// ToolNotFoundError indicates the requested tool's executable is not on PATH.
type ToolNotFoundError = difftool.ToolNotFoundError

// StagingIOError indicates a failure to create, write or delete staged files.
type StagingIOError = staging.IOError

// RevisionResolutionError indicates a revision specifier the host rejected.
type RevisionResolutionError struct {
	Spec string
	Err  error
}

func (e *RevisionResolutionError) Error() string {
	if e.Spec == "" {
		return fmt.Sprintf("cannot resolve revisions: %v", e.Err)
	}
	return fmt.Sprintf("cannot resolve revision %q: %v", e.Spec, e.Err)
}

func (e *RevisionResolutionError) Unwrap() error {
	return e.Err
}

// OptionsWithoutToolError indicates --diff-options given without --using.
type OptionsWithoutToolError struct {
	Options string
}

func (e *OptionsWithoutToolError) Error() string {
	return fmt.Sprintf("--diff-options %q requires --using", e.Options)
}

// IsToolNotFound returns true if the error indicates a missing tool.
func IsToolNotFound(err error) bool {
	return difftool.IsToolNotFound(err)
}

// IsStagingIOError returns true if the error is a staging failure.
func IsStagingIOError(err error) bool {
	return staging.IsIOError(err)
}

// IsRevisionResolution returns true if the error is a revision failure.
func IsRevisionResolution(err error) bool {
	var revErr *RevisionResolutionError
	return errors.As(err, &revErr)
}

// IsOptionsWithoutTool returns true if --diff-options was given alone.
func IsOptionsWithoutTool(err error) bool {
	var optErr *OptionsWithoutToolError
	return errors.As(err, &optErr)
}
