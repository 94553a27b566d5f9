package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRealFileSystem(t *testing.T) {
	assert.NotNil(t, NewRealFileSystem())
}

func TestRealFileSystem_Integration(t *testing.T) {
	fs := NewRealFileSystem()
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, fs.WriteFile(testFile, []byte("hello world"), 0o644))

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))

	assert.True(t, fs.Exists(testFile))
	assert.True(t, fs.IsDir(tmpDir))
	assert.False(t, fs.IsDir(testFile))

	info, err := fs.GetFileInfo(testFile)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello world")), info.Size)
	assert.False(t, info.IsDir)

	nested := filepath.Join(tmpDir, "nested", "dir")
	require.NoError(t, fs.MkdirAll(nested, 0o755))
	assert.True(t, fs.IsDir(nested))

	require.NoError(t, fs.Remove(testFile))
	assert.False(t, fs.Exists(testFile))
}

func TestRealFileSystem_MkdirTemp(t *testing.T) {
	fs := NewRealFileSystem()
	base := t.TempDir()

	dir, err := fs.MkdirTemp(base, "extdiff-1-old-*_tmp")
	require.NoError(t, err)

	assert.True(t, fs.IsDir(dir))
	assert.Equal(t, base, filepath.Dir(dir))
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "extdiff-1-old-"))
	assert.True(t, strings.HasSuffix(dir, "_tmp"))
}

func TestRealFileSystem_ChmodAndRemoveAll(t *testing.T) {
	fs := NewRealFileSystem()
	dir := filepath.Join(t.TempDir(), "tree")
	require.NoError(t, fs.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	file := filepath.Join(dir, "sub", "a.txt")
	require.NoError(t, fs.WriteFile(file, []byte("A\n"), 0o644))
	require.NoError(t, fs.Chmod(file, 0o444))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())

	require.NoError(t, fs.RemoveAll(dir))
	assert.False(t, fs.Exists(dir))
}

func TestRealFileSystem_GetFileInfo_Missing(t *testing.T) {
	fs := NewRealFileSystem()

	_, err := fs.GetFileInfo(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}
