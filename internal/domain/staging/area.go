package staging

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/ports"
)

const (
	dirPerm      os.FileMode = 0o755
	filePerm     os.FileMode = 0o644
	readOnlyPerm os.FileMode = 0o444
)

// Area is one staging directory, holding one side of a comparison.
type Area struct {
	fs    ports.FileSystem
	root  string
	files []string
}

// Root returns the directory that holds the staged files.
func (a *Area) Root() string {
	return a.root
}

// Path maps a repository-relative, slash-separated path into the area.
func (a *Area) Path(logical string) string {
	return filepath.Join(a.root, filepath.FromSlash(logical))
}

// Files returns the staged file paths in write order.
func (a *Area) Files() []string {
	return append([]string(nil), a.files...)
}

// Write stores content at logical inside the area and marks it read-only,
// since edits to a staged copy would be silently lost. It returns the
// absolute path of the staged file.
func (a *Area) Write(logical string, content []byte) (string, error) {
	clean, err := cleanLogical(logical)
	if err != nil || clean == "" {
		return "", &IOError{Op: "write", Path: logical, Err: ErrPathEscapes}
	}

	target := a.Path(clean)
	if err := a.fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return "", &IOError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
	}
	if err := a.fs.WriteFile(target, content, filePerm); err != nil {
		return "", &IOError{Op: "write", Path: target, Err: err}
	}
	a.files = append(a.files, target)

	if err := a.fs.Chmod(target, readOnlyPerm); err != nil {
		return "", &IOError{Op: "chmod", Path: target, Err: err}
	}
	return target, nil
}

// EnsureDir creates the directory logical inside the area, so a side on
// which a directory does not exist still yields a usable operand. An empty
// logical path names the area root.
func (a *Area) EnsureDir(logical string) (string, error) {
	clean, err := cleanLogical(logical)
	if err != nil {
		return "", &IOError{Op: "mkdir", Path: logical, Err: err}
	}

	target := a.Path(clean)
	if err := a.fs.MkdirAll(target, dirPerm); err != nil {
		return "", &IOError{Op: "mkdir", Path: target, Err: err}
	}
	return target, nil
}

// cleanLogical normalizes a repository-relative path. The area root comes
// back as "".
func cleanLogical(logical string) (string, error) {
	slash := filepath.ToSlash(logical)
	if slash == "" {
		return "", nil
	}
	clean := path.Clean(slash)
	if path.IsAbs(slash) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrPathEscapes
	}
	if clean == "." {
		return "", nil
	}
	return clean, nil
}

func (a *Area) remove() error {
	if !strings.HasSuffix(a.root, dirSuffix) {
		return &IOError{Op: "delete", Path: a.root, Err: ErrNotStagingDir}
	}

	// Read-only files block removal on some platforms.
	for _, f := range a.files {
		_ = a.fs.Chmod(f, filePerm)
	}
	if err := a.fs.RemoveAll(a.root); err != nil {
		return &IOError{Op: "delete", Path: a.root, Err: err}
	}
	return nil
}
