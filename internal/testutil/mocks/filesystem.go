package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
// Individual operations can be made to fail with FailOn.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	modes    map[string]os.FileMode
	dirs     map[string]bool
	failures []failure
	tempSeq  int
}

type failure struct {
	op    string
	match string
	err   error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		modes: make(map[string]os.FileMode),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = 0o644
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// FailOn makes op ("write", "mkdir", "mkdirtemp", "chmod", "remove",
// "removeall") fail with err for every path containing match.
func (fs *FileSystem) FailOn(op, match string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures = append(fs.failures, failure{op: op, match: match, err: err})
}

func (fs *FileSystem) failFor(op, path string) error {
	for _, f := range fs.failures {
		if f.op == op && strings.Contains(path, f.match) {
			return f.err
		}
	}
	return nil
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("write", path); err != nil {
		return err
	}
	if mode, ok := fs.modes[path]; ok && mode&0o200 == 0 {
		return fmt.Errorf("permission denied: %s", path)
	}
	fs.files[path] = append([]byte(nil), data...)
	fs.modes[path] = perm
	return nil
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// MkdirAll creates a directory and its parents in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("mkdir", path); err != nil {
		return err
	}
	for p := path; p != "." && p != "/" && p != ""; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

// MkdirTemp creates a directory named after pattern, with the last "*"
// replaced by a sequence number.
func (fs *FileSystem) MkdirTemp(dir, pattern string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("mkdirtemp", pattern); err != nil {
		return "", err
	}
	if dir == "" {
		dir = "/tmp"
	}
	fs.tempSeq++
	seq := fmt.Sprintf("%d", fs.tempSeq)
	name := pattern + seq
	if i := strings.LastIndex(pattern, "*"); i >= 0 {
		name = pattern[:i] + seq + pattern[i+1:]
	}
	path := filepath.Join(dir, name)
	fs.dirs[path] = true
	return path, nil
}

// Chmod changes the recorded mode of a file.
func (fs *FileSystem) Chmod(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("chmod", path); err != nil {
		return err
	}
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = perm
	return nil
}

// Mode returns the recorded mode of a file.
func (fs *FileSystem) Mode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.modes[path]
}

// Remove removes a file or directory from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("remove", path); err != nil {
		return err
	}
	delete(fs.files, path)
	delete(fs.modes, path)
	delete(fs.dirs, path)
	return nil
}

// RemoveAll removes a path and everything under it.
func (fs *FileSystem) RemoveAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.failFor("removeall", path); err != nil {
		return err
	}
	prefix := path + string(filepath.Separator)
	for p := range fs.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.files, p)
			delete(fs.modes, p)
		}
	}
	for p := range fs.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.dirs, p)
		}
	}
	return nil
}

// GetFileInfo returns metadata about a file in the mock filesystem.
func (fs *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if content, ok := fs.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    fs.modes[path],
			ModTime: time.Now(),
		}, nil
	}
	if fs.dirs[path] {
		return ports.FileInfo{Mode: os.ModeDir | 0o755, ModTime: time.Now(), IsDir: true}, nil
	}
	return ports.FileInfo{}, fmt.Errorf("file not found: %s", path)
}

// Files returns all file paths, sorted.
func (fs *FileSystem) Files() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FilesUnder returns the files below dir, sorted.
func (fs *FileSystem) FilesUnder(dir string) []string {
	var under []string
	for _, p := range fs.Files() {
		if strings.HasPrefix(p, dir+string(filepath.Separator)) {
			under = append(under, p)
		}
	}
	return under
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
