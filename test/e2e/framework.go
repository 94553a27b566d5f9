// Package e2e provides end-to-end testing utilities for the extdiff CLI.
package e2e

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Harness provides utilities for end-to-end CLI testing.
type Harness struct {
	T            *testing.T
	BinaryPath   string
	TempDir      string
	HomeDir      string
	ConfigDir    string
	RepoDir      string
	EnvVars      map[string]string
	Timeout      time.Duration
	LastOutput   string
	LastError    string
	LastExitCode int
}

// NewHarness creates a new end-to-end test harness with an empty git
// repository. It builds the extdiff binary if needed.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	configDir := filepath.Join(tempDir, "config")
	repoDir := filepath.Join(tempDir, "repo")

	// Create directories
	for _, dir := range []string{homeDir, configDir, repoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	h := &Harness{
		T:          t,
		BinaryPath: getBinary(t),
		TempDir:    tempDir,
		HomeDir:    homeDir,
		ConfigDir:  configDir,
		RepoDir:    repoDir,
		EnvVars:    make(map[string]string),
		Timeout:    30 * time.Second,
	}

	h.Git("init", "-q")
	h.Git("config", "user.name", "Test")
	h.Git("config", "user.email", "test@example.com")
	h.Git("config", "commit.gpgsign", "false")
	return h
}

// getBinary returns the path to the extdiff binary.
// It builds the binary unless EXTDIFF_BINARY names an existing one.
func getBinary(t *testing.T) string {
	t.Helper()

	// Check if binary path is specified via environment
	if path := os.Getenv("EXTDIFF_BINARY"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	// Build binary in temp directory for tests
	binaryPath := filepath.Join(t.TempDir(), "extdiff-test")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/extdiff")
	cmd.Dir = findProjectRoot(t)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build extdiff binary: %v\n%s", err, stderr.String())
	}

	return binaryPath
}

// findProjectRoot finds the project root directory.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	// Start from current directory and go up until we find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

// WithEnv sets an environment variable for commands.
func (h *Harness) WithEnv(key, value string) *Harness {
	h.EnvVars[key] = value
	return h
}

func (h *Harness) env() []string {
	env := os.Environ()
	env = append(env,
		fmt.Sprintf("HOME=%s", h.HomeDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", h.ConfigDir),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_PAGER=cat",
		"EXTDIFF_CONFIG=",
	)
	for k, v := range h.EnvVars {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

// Git runs git in the repository and returns its trimmed output.
func (h *Harness) Git(args ...string) string {
	h.T.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = h.RepoDir
	cmd.Env = h.env()
	out, err := cmd.CombinedOutput()
	if err != nil {
		h.T.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Run executes an extdiff command in the repository and returns the exit code.
func (h *Harness) Run(args ...string) int {
	h.T.Helper()

	cmd := exec.Command(h.BinaryPath, args...)
	cmd.Dir = h.RepoDir
	cmd.Env = h.env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run with timeout
	done := make(chan error, 1)
	go func() {
		done <- cmd.Run()
	}()

	select {
	case err := <-done:
		h.LastOutput = stdout.String()
		h.LastError = stderr.String()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				h.LastExitCode = exitErr.ExitCode()
			} else {
				h.LastExitCode = -1
			}
		} else {
			h.LastExitCode = 0
		}
	case <-time.After(h.Timeout):
		_ = cmd.Process.Kill()
		h.T.Fatalf("command timed out after %v: %v", h.Timeout, args)
	}

	return h.LastExitCode
}

// RunSuccess executes a command and expects it to succeed.
func (h *Harness) RunSuccess(args ...string) string {
	h.T.Helper()

	exitCode := h.Run(args...)
	if exitCode != 0 {
		h.T.Fatalf("command failed with exit code %d: %v\nOutput: %s\nStderr: %s",
			exitCode, args, h.LastOutput, h.LastError)
	}

	return h.LastOutput
}

// WriteFile writes a file in the repository's working tree.
func (h *Harness) WriteFile(relativePath, content string) string {
	h.T.Helper()
	return h.write(filepath.Join(h.RepoDir, relativePath), content, 0o644)
}

// WriteConfig writes the extdiff config file at its default location.
func (h *Harness) WriteConfig(content string) string {
	h.T.Helper()
	return h.write(filepath.Join(h.ConfigDir, "extdiff", "config.yaml"), content, 0o644)
}

// WriteTool writes a shell script tool that appends its arguments to
// log and exits with code.
func (h *Harness) WriteTool(name, log string, code int) string {
	h.T.Helper()
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" >> '%s'\nexit %d\n", log, code)
	return h.write(filepath.Join(h.TempDir, "tools", name), script, 0o755)
}

// Commit stages everything and commits it.
func (h *Harness) Commit(message string) {
	h.T.Helper()
	h.Git("add", "-A")
	h.Git("commit", "-q", "-m", message)
}

func (h *Harness) write(path, content string, perm os.FileMode) string {
	h.T.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.T.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		h.T.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// AssertOutputContains asserts the last output contains a string.
func (h *Harness) AssertOutputContains(s string) {
	h.T.Helper()

	if !strings.Contains(h.LastOutput, s) && !strings.Contains(h.LastError, s) {
		h.T.Errorf("expected output to contain %q, got:\n%s", s, h.LastOutput+h.LastError)
	}
}
