package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/ports"
	"golang.org/x/mod/semver"
)

// MinVersion is the oldest git whose rev-parse understands --end-of-options.
const MinVersion = "v2.30.0"

// ErrGitTooOld indicates an installed git older than MinVersion.
var ErrGitTooOld = errors.New("git is too old")

// Version returns the installed git version in semver form, e.g. "v2.43.0".
func Version(ctx context.Context, runner ports.CommandRunner) (string, error) {
	result, err := runner.Run(ctx, "git", "--version")
	if err != nil {
		return "", fmt.Errorf("failed to run git: %w", err)
	}
	if !result.Success() {
		return "", fmt.Errorf("failed to run git: %s", strings.TrimSpace(result.Stderr))
	}
	return parseVersion(result.Stdout)
}

// CheckVersion fails unless git is at least MinVersion.
func CheckVersion(ctx context.Context, runner ports.CommandRunner) error {
	v, err := Version(ctx, runner)
	if err != nil {
		return err
	}
	if semver.Compare(v, MinVersion) < 0 {
		return fmt.Errorf("%w: found %s, need %s", ErrGitTooOld, v, MinVersion)
	}
	return nil
}

// parseVersion turns "git version 2.39.3 (Apple Git-145)" or
// "git version 2.45.1.windows.1" into "v2.39.3" / "v2.45.1".
func parseVersion(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) < 3 || fields[0] != "git" || fields[1] != "version" {
		return "", fmt.Errorf("unexpected git --version output %q", strings.TrimSpace(output))
	}

	parts := strings.Split(fields[2], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v := "v" + strings.Join(parts, ".")
	if !semver.IsValid(v) {
		return "", fmt.Errorf("unexpected git version %q", fields[2])
	}
	return semver.Canonical(v), nil
}
