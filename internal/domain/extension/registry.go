// Package extension attaches optional behavior to the host's commands.
//
// Extensions are registered once at process start and applied with Load.
// After Load the registry is sealed: commands are never rewired while they
// may be running.
package extension

import (
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

// Extension adds flags or behavior to one host command.
type Extension interface {
	// Name identifies the extension.
	Name() string
	// Command names the host command to extend.
	Command() string
	// Extend modifies the command. It runs exactly once.
	Extend(cmd *cobra.Command) error
}

// Registry manages extensions with thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
	order      []string
	sealed     bool
}

// NewRegistry creates a new extension registry.
func NewRegistry() *Registry {
	return &Registry{
		extensions: make(map[string]Extension),
	}
}

// Register adds an extension. Extensions are applied in registration order.
func (r *Registry) Register(ext Extension) error {
	if ext == nil {
		return ErrNilExtension
	}
	if ext.Name() == "" {
		return ErrEmptyExtensionName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}
	if _, exists := r.extensions[ext.Name()]; exists {
		return &ExtensionExistsError{Name: ext.Name()}
	}
	r.extensions[ext.Name()] = ext
	r.order = append(r.order, ext.Name())
	return nil
}

// Names returns the registered extension names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Load applies every extension to its command under root and seals the
// registry.
func (r *Registry) Load(root *cobra.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}
	r.sealed = true

	for _, name := range r.order {
		ext := r.extensions[name]
		cmd := findCommand(root, ext.Command())
		if cmd == nil {
			return &TargetNotFoundError{Extension: name, Command: ext.Command()}
		}
		if err := ext.Extend(cmd); err != nil {
			return err
		}
	}
	return nil
}

func findCommand(root *cobra.Command, name string) *cobra.Command {
	if root.Name() == name {
		return root
	}
	for _, cmd := range root.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return cmd
		}
	}
	return nil
}
