package config

import (
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/adapters/filesystem"
	"github.com/felixgeelhaar/extdiff/internal/testutil"
	"github.com/felixgeelhaar/extdiff/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadYAML(t *testing.T) {
	path := testutil.WriteFixtureToDir(t, t.TempDir(), "config.yaml", "extdiff/config.yaml")

	cfg, err := NewLoader(filesystem.NewRealFileSystem()).Load(path, true)
	require.NoError(t, err)

	require.Len(t, cfg.Tools, 2)
	assert.Equal(t, "meld", cfg.Tools[0].Name)
	assert.Equal(t, "--newtab", cfg.Tools[0].Options)
	assert.Equal(t, "/opt/bc/bcompare", cfg.Tools[1].Command)
	require.NotNil(t, cfg.Tools[1].Recursive)
	assert.True(t, *cfg.Tools[1].Recursive)
	assert.True(t, cfg.Tools[1].QuietStderr)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoader_LoadTOML(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/home/u/.config/extdiff/config.toml", string(testutil.LoadFixture(t, "config.toml")))

	cfg, err := NewLoader(fs).Load("/home/u/.config/extdiff/config.toml", true)
	require.NoError(t, err)

	require.Len(t, cfg.Tools, 2)
	assert.Equal(t, "bc", cfg.Tools[0].Name)
	require.NotNil(t, cfg.Tools[0].Recursive)
	assert.False(t, *cfg.Tools[0].Recursive)
	assert.Nil(t, cfg.Tools[1].Recursive)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_Missing(t *testing.T) {
	loader := NewLoader(mocks.NewFileSystem())

	cfg, err := loader.Load("/nowhere/config.yaml", false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Tools)

	_, err = loader.Load("/nowhere/config.yaml", true)
	require.Error(t, err)
	assert.True(t, hasCode(err, ErrCodeConfigNotFound))
}

func TestLoader_ParseErrors(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/c/bad.yaml", "tools:\n  meld:\n    recursive: true\n")
	fs.AddFile("/c/bad.toml", "[[tools]\nname = ")
	fs.AddFile("/c/invalid.yaml", "tools:\n  - command: /bin/true\n")
	loader := NewLoader(fs)

	_, err := loader.Load("/c/bad.yaml", true)
	require.Error(t, err)
	assert.True(t, hasCode(err, ErrCodeConfigParse))
	assert.Equal(t, "invalid tools format", GetUserError(err).Message)

	_, err = loader.Load("/c/bad.toml", true)
	require.Error(t, err)
	assert.True(t, hasCode(err, ErrCodeConfigParse))

	_, err = loader.Load("/c/invalid.yaml", true)
	require.Error(t, err)
	assert.True(t, hasCode(err, ErrCodeValidationFailed))
}

func TestLocate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv(EnvConfig, "")

	path, explicit := Locate("")
	assert.Equal(t, "/xdg/extdiff/config.yaml", path)
	assert.False(t, explicit)

	t.Setenv(EnvConfig, "/env/extdiff.toml")
	path, explicit = Locate("")
	assert.Equal(t, "/env/extdiff.toml", path)
	assert.True(t, explicit)

	path, explicit = Locate("/flag/extdiff.yaml")
	assert.Equal(t, "/flag/extdiff.yaml", path)
	assert.True(t, explicit)
}
