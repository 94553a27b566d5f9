package invoke

import (
	"context"

	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
)

// EntryKind is what a path names on one side of a comparison.
type EntryKind int

const (
	// EntryMissing means the path does not exist on that side.
	EntryMissing EntryKind = iota
	// EntryFile is a regular file or symlink.
	EntryFile
	// EntryDir is a directory, including the repository root.
	EntryDir
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDir:
		return "directory"
	default:
		return "missing"
	}
}

// ChangeOp classifies a changed path.
type ChangeOp int

// Change operations.
const (
	OpModified ChangeOp = iota
	OpAdded
	OpDeleted
	OpRenamed
)

// Change is one path that differs between the two sides.
type Change struct {
	Op ChangeOp
	// OldPath is empty for added files.
	OldPath string
	// NewPath is empty for deleted files.
	NewPath string
	// TextChanged is false for pure mode changes and exact renames.
	TextChanged bool
}

// Path returns the path the change is best known by.
func (c Change) Path() string {
	if c.NewPath != "" {
		return c.NewPath
	}
	return c.OldPath
}

// Repository is the host version-control system as seen by the invoker.
// Paths are repository-relative and slash-separated.
type Repository interface {
	// Root returns the absolute path of the working tree.
	Root() string

	// Resolve fills in the object ids of the pair's revision sides and
	// replaces Old with the merge base when the pair asks for it.
	Resolve(ctx context.Context, pair revision.Pair) (revision.Pair, error)

	// Normalize converts user-supplied paths into repository-relative
	// paths. The repository root itself is dropped, so an empty result
	// means the whole tree.
	Normalize(ctx context.Context, paths []string) ([]string, error)

	// Changes lists the paths that differ between the two sides.
	Changes(ctx context.Context, pair revision.Pair, paths []string) ([]Change, error)

	// Kind reports what path names on side.
	Kind(ctx context.Context, side revision.Side, path string) (EntryKind, error)

	// Files lists every file under paths on side.
	Files(ctx context.Context, side revision.Side, paths []string) ([]string, error)

	// Content returns a file's content on side. A file that does not
	// exist there yields an error wrapping ErrNoSuchEntry.
	Content(ctx context.Context, side revision.Side, path string) ([]byte, error)
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
