package difftool

import (
	"sort"
	"sync"
)

// Locator resolves an executable name to a path.
type Locator interface {
	LookPath(name string) (string, error)
}

// Catalog holds tool exemplars keyed by name. Find hands out clones, so
// options added for one invocation never reach the exemplar.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: make(map[string]*Tool)}
}

// DefaultCatalog returns a catalog preloaded with well-known tools.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	tree := Capabilities{Recursive: true, Interactive: true}
	list := Capabilities{Recursive: false, Interactive: true}

	// opendiff is left out: it returns before FileMerge has read its
	// operands, which are deleted as soon as the tool exits.
	for _, name := range []string{"meld", "kdiff3", "kompare", "xxdiff", "diffuse", "bcompare"} {
		_ = c.Register(New(name, tree))
	}
	for _, name := range []string{"vimdiff", "gvimdiff", "mgdiff", "tkdiff"} {
		_ = c.Register(New(name, list))
	}
	_ = c.Register(New("nvim", list, "-d"))
	_ = c.Register(New("diff", Capabilities{Recursive: true}, "-r", "-u"))
	_ = c.Register(New("colordiff", Capabilities{Recursive: true}, "-r", "-u"))

	return c
}

// Register adds or replaces a tool exemplar. The last registration wins.
func (c *Catalog) Register(tool *Tool) error {
	if tool == nil {
		return ErrNilTool
	}
	if tool.Name == "" {
		return ErrEmptyToolName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools[tool.Name] = tool.Clone()
	return nil
}

// Get returns a clone of the named exemplar.
func (c *Catalog) Get(name string) (*Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tool, ok := c.tools[name]
	if !ok {
		return nil, false
	}
	return tool.Clone(), true
}

// List returns clones of all exemplars sorted by name.
func (c *Catalog) List() []*Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tools := make([]*Tool, 0, len(c.tools))
	for _, t := range c.tools {
		tools = append(tools, t.Clone())
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// Find returns a fresh instance of the named tool with its executable
// resolved. Unknown names get a generic recursive tool that is not
// registered.
func (c *Catalog) Find(name string, locator Locator) (*Tool, error) {
	if name == "" {
		return nil, &ToolNotFoundError{Err: ErrEmptyToolName}
	}

	tool, ok := c.Get(name)
	if !ok {
		tool = New(name, Capabilities{Recursive: true, Interactive: true})
	}

	command := tool.Command
	if command == "" {
		command = name
	}
	path, err := locator.LookPath(command)
	if err != nil {
		return nil, &ToolNotFoundError{Name: name, Command: command, Err: err}
	}
	tool.Path = path
	return tool, nil
}
