// Package staging writes revision content to temporary files that an
// external, revision-unaware program can open.
//
// A Session belongs to exactly one invocation. Every Area it creates is
// recorded before anything is written into it, so Close removes everything
// staged so far even when staging fails halfway through.
package staging

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/google/uuid"
)

// dirSuffix marks every directory a Session creates.
const dirSuffix = "_tmp"

// Session tracks the staging areas of one invocation.
type Session struct {
	fs      ports.FileSystem
	baseDir string
	id      string
	areas   []*Area
	closed  bool
}

// Option configures a Session.
type Option func(*Session)

// WithBaseDir creates areas under dir instead of the OS temp directory.
func WithBaseDir(dir string) Option {
	return func(s *Session) {
		s.baseDir = dir
	}
}

// WithID sets the invocation id used in directory names.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession creates a session. Nothing touches the disk until NewArea.
func NewSession(fs ports.FileSystem, opts ...Option) *Session {
	s := &Session{fs: fs}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = NewID()
	}
	return s
}

// NewID returns a short random invocation id.
func NewID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// NewArea creates a uniquely named directory, e.g.
// extdiff-4242-1a2b3c4d-revHEAD-839201_tmp.
func (s *Session) NewArea(hint string) (*Area, error) {
	if s.closed {
		return nil, &IOError{Op: "create", Path: hint, Err: ErrSessionClosed}
	}

	pattern := fmt.Sprintf("extdiff-%d-%s-%s-*%s", os.Getpid(), s.id, hint, dirSuffix)
	root, err := s.fs.MkdirTemp(s.baseDir, pattern)
	if err != nil {
		return nil, &IOError{Op: "create", Path: pattern, Err: err}
	}

	area := &Area{fs: s.fs, root: root}
	s.areas = append(s.areas, area)
	return area, nil
}

// Close removes every area, newest first. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.areas) - 1; i >= 0; i-- {
		if err := s.areas[i].remove(); err != nil {
			errs = append(errs, err)
		}
	}
	s.areas = nil
	return errors.Join(errs...)
}
