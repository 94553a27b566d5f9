package mocks

import (
	"context"
	"os/exec"
	"sync"

	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// Launcher is a thread-safe test double for ports.ProcessLauncher.
type Launcher struct {
	mu       sync.RWMutex
	paths    map[string]string
	exitCode int
	err      error
	onLaunch func(spec ports.ProcessSpec) (int, error)
	launches []ports.ProcessSpec
	lookups  []string
}

// NewLauncher creates a launcher that finds no executables.
func NewLauncher() *Launcher {
	return &Launcher{paths: make(map[string]string)}
}

// AddExecutable makes LookPath resolve name to path.
func (l *Launcher) AddExecutable(name, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths[name] = path
}

// SetExitCode sets the exit code returned by Launch.
func (l *Launcher) SetExitCode(code int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exitCode = code
}

// SetError makes Launch fail to start the process.
func (l *Launcher) SetError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// OnLaunch installs a callback that runs while the "process" is alive,
// e.g. to inspect staged files before they are cleaned up.
func (l *Launcher) OnLaunch(fn func(spec ports.ProcessSpec) (int, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onLaunch = fn
}

// LookPath resolves registered executables.
func (l *Launcher) LookPath(name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lookups = append(l.lookups, name)
	if p, ok := l.paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Launch records the spec and returns the configured result.
func (l *Launcher) Launch(_ context.Context, spec ports.ProcessSpec) (int, error) {
	l.mu.Lock()
	spec.Args = append([]string(nil), spec.Args...)
	l.launches = append(l.launches, spec)
	fn, code, err := l.onLaunch, l.exitCode, l.err
	l.mu.Unlock()

	if err != nil {
		return -1, err
	}
	if fn != nil {
		return fn(spec)
	}
	return code, nil
}

// Launches returns every recorded launch.
func (l *Launcher) Launches() []ports.ProcessSpec {
	l.mu.RLock()
	defer l.mu.RUnlock()
	launches := make([]ports.ProcessSpec, len(l.launches))
	copy(launches, l.launches)
	return launches
}

// Lookups returns every name passed to LookPath.
func (l *Launcher) Lookups() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.lookups...)
}

// Ensure Launcher implements ports.ProcessLauncher.
var _ ports.ProcessLauncher = (*Launcher)(nil)
