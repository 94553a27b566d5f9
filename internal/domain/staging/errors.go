package staging

import (
	"errors"
	"fmt"
)

// ErrPathEscapes indicates a logical path that would land outside its area.
var ErrPathEscapes = errors.New("path escapes the staging area")

// ErrNotStagingDir guards against removing a directory this package did not create.
var ErrNotStagingDir = errors.New("refusing to delete a non-staging directory")

// ErrSessionClosed indicates an area was requested after Close.
var ErrSessionClosed = errors.New("staging session is closed")

// IOError wraps a failure to create, write or delete staged content.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("staging %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError returns true if the error is a staging I/O failure.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
