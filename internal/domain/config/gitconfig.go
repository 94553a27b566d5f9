package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/ports"
	"github.com/felixgeelhaar/extdiff/internal/validation"
	"gopkg.in/ini.v1"
)

// GitConfigPaths lists git's config files from lowest to highest
// precedence. repoConfig may be empty outside a repository.
func GitConfigPaths(repoConfig string) []string {
	paths := []string{
		"/etc/gitconfig",
		filepath.Join(configHome(), "git", "config"),
		ports.ExpandPath("~/.gitconfig"),
	}
	if global := os.Getenv("GIT_CONFIG_GLOBAL"); global != "" {
		paths = []string{"/etc/gitconfig", ports.ExpandPath(global)}
	}
	if repoConfig != "" {
		paths = append(paths, repoConfig)
	}
	return paths
}

// DifftoolPaths reads [difftool "<name>"] path = <executable> from the
// given git config files. Later files win; missing files are skipped.
func (l *Loader) DifftoolPaths(files []string) (map[string]string, error) {
	paths := make(map[string]string)
	for _, file := range files {
		if !l.fs.Exists(file) {
			continue
		}
		data, err := l.fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		found, err := parseDifftoolPaths(data)
		if err != nil {
			return nil, NewUserError(ErrCodeConfigParse, "failed to parse git config").
				WithContext(file).
				WithUnderlying(err)
		}
		for name, path := range found {
			paths[name] = path
		}
	}
	return paths, nil
}

func parseDifftoolPaths(data []byte) (map[string]string, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	for _, section := range cfg.Sections() {
		name, ok := difftoolName(section.Name())
		if !ok {
			continue
		}
		for _, key := range section.Keys() {
			if strings.EqualFold(key.Name(), "path") && key.String() != "" {
				paths[name] = key.String()
			}
		}
	}
	return paths, nil
}

// difftoolName extracts the tool from `difftool "meld"` or the legacy
// `difftool.meld` section name.
func difftoolName(section string) (string, bool) {
	head, sub, ok := strings.Cut(section, " ")
	if ok && strings.EqualFold(head, "difftool") {
		sub = strings.TrimSpace(sub)
		if len(sub) >= 2 && strings.HasPrefix(sub, `"`) && strings.HasSuffix(sub, `"`) {
			return sub[1 : len(sub)-1], true
		}
		return "", false
	}
	head, sub, ok = strings.Cut(section, ".")
	if ok && strings.EqualFold(head, "difftool") && sub != "" {
		return sub, true
	}
	return "", false
}

// ApplyDifftoolPaths points the named tools at the configured executables.
// Unknown names become generic recursive tools.
func ApplyDifftoolPaths(catalog *difftool.Catalog, paths map[string]string) error {
	for name, path := range paths {
		if err := validation.ValidateCommand(path); err != nil {
			return fmt.Errorf("difftool.%s.path: %w", name, err)
		}
		tool, ok := catalog.Get(name)
		if !ok {
			tool = difftool.New(name, difftool.Capabilities{Recursive: true, Interactive: true})
		}
		tool.Command = ports.ExpandPath(path)
		if err := catalog.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool %q: %w", name, err)
		}
	}
	return nil
}
