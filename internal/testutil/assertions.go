package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFileNotExists asserts that nothing exists at the given path.
func AssertFileNotExists(t testing.TB, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "expected nothing at: %s", path)
}

// AssertFileEquals asserts that a file has exactly the expected content.
func AssertFileEquals(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.Equal(t, expected, string(content), msgAndArgs...)
}

// AssertFileMode asserts a file's permission bits, e.g. 0o444 for staged files.
func AssertFileMode(t testing.TB, path string, perm os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err, "failed to stat file: %s", path)
	assert.Equal(t, perm, info.Mode().Perm(), "unexpected permissions on %s", path)
}

// AssertDirEmpty asserts that a directory exists and has no entries.
// Used to check that staging left nothing behind.
func AssertDirEmpty(t testing.TB, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "failed to read directory: %s", dir)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Empty(t, names, "expected %s to be empty", dir)
}
