// Package config loads user configuration: tool definitions and logging
// settings from the extdiff config file, and difftool paths from git's
// own config files.
package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/validation"
)

// Config is the extdiff config file.
type Config struct {
	Tools []ToolConfig `yaml:"tools" toml:"tools"`
	Log   LogConfig    `yaml:"log" toml:"log"`
}

// ToolConfig declares a tool or overrides a built-in one.
type ToolConfig struct {
	Name string `yaml:"name" toml:"name"`
	// Command defaults to Name.
	Command string `yaml:"command,omitempty" toml:"command,omitempty"`
	// Options are whitespace-separated and go before the two operands.
	Options string `yaml:"options,omitempty" toml:"options,omitempty"`
	// Unset capabilities keep the built-in tool's value, or default to a
	// recursive interactive tool for new names.
	Recursive   *bool `yaml:"recursive,omitempty" toml:"recursive,omitempty"`
	Interactive *bool `yaml:"interactive,omitempty" toml:"interactive,omitempty"`
	QuietStderr bool  `yaml:"quiet_stderr,omitempty" toml:"quiet_stderr,omitempty"`
}

// LogConfig holds logging defaults; command-line flags win.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// Validate checks the config for mistakes the loader cannot catch.
func (c *Config) Validate() error {
	errs := NewErrorList()
	seen := make(map[string]bool)

	for i, tool := range c.Tools {
		field := fmt.Sprintf("tools[%d]", i)
		name := strings.TrimSpace(tool.Name)
		nameErr := validation.ValidateToolName(name)
		switch {
		case name == "":
			errs.AddValidation(field+".name", "is required", "Give every tool the name used with --using.")
		case nameErr != nil:
			errs.AddValidation(field+".name", nameErr.Error(),
				"Put the executable path in 'command' and keep 'name' short.")
		case seen[name]:
			errs.AddValidation(field+".name", fmt.Sprintf("duplicate tool %q", name), "Declare each tool once.")
		}
		seen[name] = true

		if tool.Command != "" {
			if err := validation.ValidateCommand(tool.Command); err != nil {
				errs.AddValidation(field+".command", err.Error(), "Use a single-line executable name or path.")
			}
		}
		if err := validation.ValidateOptions(tool.Options); err != nil {
			errs.AddValidation(field+".options", err.Error(), "Write options on one line, separated by spaces.")
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs.AddValidation("log.format", fmt.Sprintf("unknown format %q", c.Log.Format), "Use 'text' or 'json'.")
	}

	return errs.AsError()
}

// Apply registers the configured tools in catalog.
func (c *Config) Apply(catalog *difftool.Catalog) error {
	for _, tc := range c.Tools {
		tool, ok := catalog.Get(tc.Name)
		if !ok {
			tool = difftool.New(tc.Name, difftool.Capabilities{Recursive: true, Interactive: true})
		}
		if tc.Command != "" {
			tool.Command = tc.Command
		}
		if tc.Options != "" {
			tool.Options = difftool.SplitOptions(tc.Options)
		}
		if tc.Recursive != nil {
			tool.Recursive = *tc.Recursive
		}
		if tc.Interactive != nil {
			tool.Interactive = *tc.Interactive
		}
		tool.QuietStderr = tc.QuietStderr

		if err := catalog.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool %q: %w", tc.Name, err)
		}
	}
	return nil
}
