// Package difftool describes external diff tools: how they are found,
// what they support, and how their command lines are built.
package difftool

import (
	"strings"
)

// Capabilities records what a tool can do with its operands.
type Capabilities struct {
	// Recursive tools accept two directories and walk them themselves.
	// Other tools are run once per changed file.
	Recursive bool
	// Interactive tools need a terminal or display; running many of them
	// in a row asks for confirmation first.
	Interactive bool
}

// Tool is an external diff program.
type Tool struct {
	// Name is the catalog key, as given to --using.
	Name string
	// Command is the executable name or path. Defaults to Name.
	Command string
	// Options are passed before the two operands.
	Options []string
	// Path is the resolved executable, set by Catalog.Find.
	Path string
	// QuietStderr sends the tool's stderr to the debug log instead of the terminal.
	QuietStderr bool

	Capabilities
}

// New creates a tool whose command is its name.
func New(name string, caps Capabilities, options ...string) *Tool {
	return &Tool{
		Name:         name,
		Command:      name,
		Options:      options,
		Capabilities: caps,
	}
}

// Executable returns the command to run: the resolved path when known.
func (t *Tool) Executable() string {
	if t.Path != "" {
		return t.Path
	}
	if t.Command != "" {
		return t.Command
	}
	return t.Name
}

// Clone returns a copy that can take extra options without touching t.
func (t *Tool) Clone() *Tool {
	clone := *t
	clone.Options = append([]string(nil), t.Options...)
	return &clone
}

// AddOptions appends whitespace-separated options.
func (t *Tool) AddOptions(options string) {
	t.Options = append(t.Options, SplitOptions(options)...)
}

// Args returns the arguments after the executable: options, then old, then new.
func (t *Tool) Args(oldPath, newPath string) []string {
	args := make([]string, 0, len(t.Options)+2)
	args = append(args, t.Options...)
	return append(args, oldPath, newPath)
}

// Argv returns the full command line as the user would type it.
func (t *Tool) Argv(oldPath, newPath string) []string {
	command := t.Command
	if command == "" {
		command = t.Name
	}
	return append([]string{command}, t.Args(oldPath, newPath)...)
}

// Kind names the invocation style.
func (t *Tool) Kind() string {
	if t.Recursive {
		return "tree"
	}
	return "list"
}

// SplitOptions splits an option string on whitespace.
func SplitOptions(options string) []string {
	return strings.Fields(options)
}
