package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "EXTDIFF_CONFIG"

// Loader loads configuration from the filesystem.
type Loader struct {
	fs ports.FileSystem
}

// NewLoader creates a new Loader.
func NewLoader(fs ports.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// DefaultPath returns $XDG_CONFIG_HOME/extdiff/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	return filepath.Join(configHome(), "extdiff", "config.yaml")
}

func configHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return ports.ExpandPath("~/.config")
}

// Locate picks the config file: the --config flag, then $EXTDIFF_CONFIG,
// then the default path. explicit is false for the default, which may be
// missing.
func Locate(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return ports.ExpandPath(flagPath), true
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return ports.ExpandPath(env), true
	}
	return DefaultPath(), false
}

// Load reads the config file at path. A missing file is an error only when
// explicit is set; otherwise an empty Config is returned.
func (l *Loader) Load(path string, explicit bool) (*Config, error) {
	if !l.fs.Exists(path) {
		if explicit {
			return nil, NewConfigNotFoundError(path)
		}
		return &Config{}, nil
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, NewUserError(ErrCodeConfigParse, "failed to read configuration file").
			WithContext(path).
			WithUnderlying(err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data as TOML for .toml files and YAML otherwise.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, NewTOMLParseError(path, err)
		}
		return &cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewYAMLParseError(path, err)
	}
	return &cfg, nil
}
