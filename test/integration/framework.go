// Package integration runs the invoker against real git repositories and a
// stub diff tool that records what it was given.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/felixgeelhaar/extdiff/internal/adapters/command"
	"github.com/felixgeelhaar/extdiff/internal/adapters/filesystem"
	"github.com/felixgeelhaar/extdiff/internal/adapters/git"
	"github.com/felixgeelhaar/extdiff/internal/domain/difftool"
	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
)

// stubScript copies its last two operands into a numbered capture
// directory, records its arguments and exits with a fixed status.
const stubScript = `#!/bin/sh
cap='%s'
n=$(ls "$cap" | wc -l | tr -d ' ')
mkdir "$cap/$n"
printf '%%s\n' "$@" > "$cap/$n/args"
eval "old=\${$(($# - 1))}"
eval "new=\${$#}"
cp -R "$old" "$cap/$n/old"
cp -R "$new" "$cap/$n/new"
exit %d
`

// TestHarness provides a scratch repository and a stub tool catalog.
type TestHarness struct {
	T          *testing.T
	RepoDir    string
	StagingDir string
	Output     *bytes.Buffer

	captureDir string
	toolsDir   string
	catalog    *difftool.Catalog
}

// Capture is what one launch of a stub tool received.
type Capture struct {
	Args []string
	// Old and New are copies of the two operands.
	Old string
	New string
}

// NewHarness creates an empty repository. The test is skipped without git
// or a POSIX shell.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub tool needs a POSIX shell")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tempDir := t.TempDir()
	h := &TestHarness{
		T:          t,
		RepoDir:    filepath.Join(tempDir, "repo"),
		StagingDir: filepath.Join(tempDir, "staging"),
		Output:     &bytes.Buffer{},
		captureDir: filepath.Join(tempDir, "captures"),
		toolsDir:   filepath.Join(tempDir, "tools"),
		catalog:    difftool.NewCatalog(),
	}
	for _, dir := range []string{h.RepoDir, h.StagingDir, h.captureDir, h.toolsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	h.Git("init", "-q")
	h.Git("config", "user.name", "Test")
	h.Git("config", "user.email", "test@example.com")
	h.Git("config", "commit.gpgsign", "false")
	return h
}

// Git runs git in the repository and returns its trimmed output.
func (h *TestHarness) Git(args ...string) string {
	h.T.Helper()

	cmd := exec.Command("git", append([]string{"-C", h.RepoDir}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_CONFIG_GLOBAL=/dev/null")
	out, err := cmd.CombinedOutput()
	if err != nil {
		h.T.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes a file in the working tree.
func (h *TestHarness) WriteFile(relativePath, content string) {
	h.T.Helper()

	path := filepath.Join(h.RepoDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.T.Fatalf("failed to write file: %v", err)
	}
}

// RemoveFile deletes a file from the working tree.
func (h *TestHarness) RemoveFile(relativePath string) {
	h.T.Helper()

	if err := os.Remove(filepath.Join(h.RepoDir, filepath.FromSlash(relativePath))); err != nil {
		h.T.Fatalf("failed to remove file: %v", err)
	}
}

// Commit stages everything and commits it, returning the commit id.
func (h *TestHarness) Commit(message string) string {
	h.T.Helper()

	h.Git("add", "-A")
	h.Git("commit", "-q", "-m", message)
	return h.Git("rev-parse", "HEAD")
}

// AddTool registers a stub tool that exits with exitCode.
func (h *TestHarness) AddTool(name string, caps difftool.Capabilities, exitCode int) {
	h.T.Helper()

	path := filepath.Join(h.toolsDir, name)
	script := fmt.Sprintf(stubScript, h.captureDir, exitCode)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		h.T.Fatalf("failed to write stub tool: %v", err)
	}

	tool := difftool.New(name, caps)
	tool.Command = path
	if err := h.catalog.Register(tool); err != nil {
		h.T.Fatalf("failed to register stub tool: %v", err)
	}
}

// Run opens the repository and runs the invoker on it.
func (h *TestHarness) Run(req invoke.Request) (invoke.Result, error) {
	h.T.Helper()

	ctx := context.Background()
	runner := command.NewRealRunner(command.WithEnv(git.Env...))
	fs := filesystem.NewRealFileSystem()

	repo, err := git.Open(ctx, runner, fs, h.RepoDir)
	if err != nil {
		return invoke.Result{}, err
	}

	inv := invoke.New(h.catalog, repo, command.NewRealLauncher(), fs,
		invoke.WithStagingDir(h.StagingDir),
		invoke.WithStdio(nil, h.Output, h.Output),
	)
	return inv.Run(ctx, req)
}

// Captures returns every stub launch in order.
func (h *TestHarness) Captures() []Capture {
	h.T.Helper()

	entries, err := os.ReadDir(h.captureDir)
	if err != nil {
		h.T.Fatalf("failed to read captures: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, _ := strconv.Atoi(entries[i].Name())
		b, _ := strconv.Atoi(entries[j].Name())
		return a < b
	})

	captures := make([]Capture, 0, len(entries))
	for _, e := range entries {
		dir := filepath.Join(h.captureDir, e.Name())
		args, err := os.ReadFile(filepath.Join(dir, "args"))
		if err != nil {
			h.T.Fatalf("failed to read args: %v", err)
		}
		captures = append(captures, Capture{
			Args: strings.Split(strings.TrimSuffix(string(args), "\n"), "\n"),
			Old:  filepath.Join(dir, "old"),
			New:  filepath.Join(dir, "new"),
		})
	}
	return captures
}

// StagingLeftovers lists anything left in the staging directory.
func (h *TestHarness) StagingLeftovers() []string {
	h.T.Helper()

	entries, err := os.ReadDir(h.StagingDir)
	if err != nil {
		h.T.Fatalf("failed to read staging dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// ReadCaptured reads a copied operand, or a file inside a copied tree.
func ReadCaptured(t *testing.T, parts ...string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(parts...))
	if err != nil {
		t.Fatalf("failed to read capture: %v", err)
	}
	return string(data)
}
