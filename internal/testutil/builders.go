package testutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// TestConfig mirrors the extdiff config file for building test inputs.
type TestConfig struct {
	Tools []TestTool `yaml:"tools,omitempty" toml:"tools,omitempty"`
	Log   TestLog    `yaml:"log,omitempty" toml:"log,omitempty"`
}

// TestTool is one tools entry.
type TestTool struct {
	Name        string `yaml:"name" toml:"name"`
	Command     string `yaml:"command,omitempty" toml:"command,omitempty"`
	Options     string `yaml:"options,omitempty" toml:"options,omitempty"`
	Recursive   *bool  `yaml:"recursive,omitempty" toml:"recursive,omitempty"`
	Interactive *bool  `yaml:"interactive,omitempty" toml:"interactive,omitempty"`
	QuietStderr bool   `yaml:"quiet_stderr,omitempty" toml:"quiet_stderr,omitempty"`
}

// TestLog is the log section.
type TestLog struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// ConfigBuilder builds extdiff config files.
type ConfigBuilder struct {
	config TestConfig
}

// NewConfigBuilder creates an empty config builder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithTool adds a tool entry.
func (b *ConfigBuilder) WithTool(name, command, options string) *ConfigBuilder {
	b.config.Tools = append(b.config.Tools, TestTool{Name: name, Command: command, Options: options})
	return b
}

// WithListTool adds a non-recursive tool entry.
func (b *ConfigBuilder) WithListTool(name, command string) *ConfigBuilder {
	recursive := false
	b.config.Tools = append(b.config.Tools, TestTool{Name: name, Command: command, Recursive: &recursive})
	return b
}

// WithLog sets the log section.
func (b *ConfigBuilder) WithLog(level, format string) *ConfigBuilder {
	b.config.Log = TestLog{Level: level, Format: format}
	return b
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() TestConfig {
	return b.config
}

// ToYAML converts the config to YAML.
func (c TestConfig) ToYAML() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("marshal test config: %v", err))
	}
	return string(data)
}

// ToTOML converts the config to TOML.
func (c TestConfig) ToTOML() string {
	data, err := toml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("marshal test config: %v", err))
	}
	return string(data)
}

// GitConfigBuilder builds git config files with difftool sections.
type GitConfigBuilder struct {
	paths map[string]string
}

// NewGitConfigBuilder creates an empty git config builder.
func NewGitConfigBuilder() *GitConfigBuilder {
	return &GitConfigBuilder{paths: make(map[string]string)}
}

// WithDifftoolPath adds [difftool "<name>"] path = <path>.
func (b *GitConfigBuilder) WithDifftoolPath(name, path string) *GitConfigBuilder {
	b.paths[name] = path
	return b
}

// String renders the config in git's format, sections sorted by name.
func (b *GitConfigBuilder) String() string {
	names := make([]string, 0, len(b.paths))
	for name := range b.paths {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("[core]\n\trepositoryformatversion = 0\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "[difftool %q]\n\tpath = %s\n", name, b.paths[name])
	}
	return sb.String()
}
