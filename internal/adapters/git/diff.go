package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// ErrBadPrefix indicates a --prefix value without the old:new separator.
var ErrBadPrefix = errors.New(`--prefix takes two values separated by a colon, e.g. "old/:new/"`)

// DiffOptions are the options of the built-in diff.
type DiffOptions struct {
	Revisions []string
	Paths     []string
	// Prefix is "old:new", replacing git's a/ and b/.
	Prefix string
}

// BuiltinDiff renders diffs with git's own two-way diff, attached to the
// terminal so the pager and colors work as usual.
type BuiltinDiff struct {
	launcher ports.ProcessLauncher
	stdout   io.Writer
	stderr   io.Writer
}

// NewBuiltinDiff creates a BuiltinDiff writing to the given streams; nil
// streams mean the process's own.
func NewBuiltinDiff(launcher ports.ProcessLauncher, stdout, stderr io.Writer) *BuiltinDiff {
	return &BuiltinDiff{launcher: launcher, stdout: stdout, stderr: stderr}
}

// Run shows the diff and returns git's exit status: 0 without
// differences, 1 with differences.
func (d *BuiltinDiff) Run(ctx context.Context, opts DiffOptions) (int, error) {
	args, err := BuiltinArgs(opts)
	if err != nil {
		return 0, err
	}
	code, err := d.launcher.Launch(ctx, ports.ProcessSpec{
		Command: "git",
		Args:    args,
		Stdout:  d.stdout,
		Stderr:  d.stderr,
	})
	if err != nil {
		return code, fmt.Errorf("failed to run git diff: %w", err)
	}
	return code, nil
}

// BuiltinArgs builds the git diff arguments. Revisions follow the same
// grammar as with --using, so the default compares HEAD with the working
// tree rather than the index.
func BuiltinArgs(opts DiffOptions) ([]string, error) {
	pair, err := revision.ParsePair(opts.Revisions)
	if err != nil {
		return nil, err
	}

	args := []string{"diff", "--exit-code"}
	if opts.Prefix != "" {
		src, dst, err := SplitPrefix(opts.Prefix)
		if err != nil {
			return nil, err
		}
		args = append(args, "--src-prefix="+src, "--dst-prefix="+dst)
	}

	switch {
	case pair.MergeBase:
		args = append(args, pair.Old.Spec+"..."+pair.New.Spec)
	default:
		args = append(args, treeish(pair.Old))
		if !pair.New.IsWorkingTree() {
			args = append(args, treeish(pair.New))
		}
	}

	args = append(args, "--")
	return append(args, opts.Paths...), nil
}

// SplitPrefix splits "old/:new/" into its two halves.
func SplitPrefix(prefix string) (string, string, error) {
	src, dst, ok := strings.Cut(prefix, ":")
	if !ok {
		return "", "", ErrBadPrefix
	}
	return src, dst, nil
}
