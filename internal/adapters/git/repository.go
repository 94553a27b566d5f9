// Package git adapts a git working tree to the invoker's Repository port
// by shelling out to the git CLI.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
	"github.com/felixgeelhaar/extdiff/internal/ports"
)

// ErrNotRepository indicates a directory outside any git working tree.
var ErrNotRepository = errors.New("not a git repository")

// ErrOutsideRepository indicates a path argument outside the working tree.
var ErrOutsideRepository = errors.New("path is outside the repository")

// Env is the environment git should run with. Messages stay untranslated
// so stderr in errors and logs reads the same everywhere.
var Env = []string{"LC_ALL=C", "LANGUAGE="}

// Repository is a git working tree.
type Repository struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	root   string
	dir    string
}

// Open finds the working tree containing dir. Relative path arguments are
// later interpreted against dir.
func Open(ctx context.Context, runner ports.CommandRunner, fs ports.FileSystem, dir string) (*Repository, error) {
	result, err := runner.Run(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to run git: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}

	root := filepath.FromSlash(strings.TrimSpace(result.Stdout))
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return &Repository{runner: runner, fs: fs, root: root, dir: dir}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// git runs a git subcommand inside the working tree.
func (r *Repository) git(ctx context.Context, args ...string) (ports.CommandResult, error) {
	full := append([]string{"-C", r.root}, args...)
	result, err := r.runner.Run(ctx, "git", full...)
	if err != nil {
		return result, fmt.Errorf("failed to run git %s: %w", args[0], err)
	}
	return result, nil
}

// ConfigPath returns the path of the repository's own config file.
func (r *Repository) ConfigPath(ctx context.Context) (string, error) {
	result, err := r.git(ctx, "rev-parse", "--git-path", "config")
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("failed to locate git config: %s", strings.TrimSpace(result.Stderr))
	}
	p := filepath.FromSlash(strings.TrimSpace(result.Stdout))
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.root, p)
	}
	return p, nil
}

// Resolve fills in commit ids and applies the merge base.
func (r *Repository) Resolve(ctx context.Context, pair revision.Pair) (revision.Pair, error) {
	var err error
	if pair.Old, err = r.resolveSide(ctx, pair.Old); err != nil {
		return revision.Pair{}, err
	}
	if pair.New, err = r.resolveSide(ctx, pair.New); err != nil {
		return revision.Pair{}, err
	}

	if pair.MergeBase {
		result, err := r.git(ctx, "merge-base", pair.Old.ID, pair.New.ID)
		if err != nil {
			return revision.Pair{}, err
		}
		if !result.Success() {
			return revision.Pair{}, &invoke.RevisionResolutionError{
				Spec: pair.Old.Spec + "..." + pair.New.Spec,
				Err:  errors.New("no merge base"),
			}
		}
		pair.Old.ID = strings.TrimSpace(result.Stdout)
		pair.MergeBase = false
	}
	return pair, nil
}

func (r *Repository) resolveSide(ctx context.Context, side revision.Side) (revision.Side, error) {
	spec := side.Spec
	switch side.Kind {
	case revision.KindWorkingTree:
		return side, nil
	case revision.KindBase:
		spec = "HEAD"
	}

	result, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "--end-of-options", spec+"^{commit}")
	if err != nil {
		return side, err
	}
	if !result.Success() {
		return side, &invoke.RevisionResolutionError{Spec: spec, Err: errors.New("unknown revision")}
	}
	side.ID = strings.TrimSpace(result.Stdout)
	return side, nil
}

// Normalize turns path arguments into slash-separated paths relative to
// the working tree root.
func (r *Repository) Normalize(_ context.Context, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(r.dir, p)
		}
		rel, err := filepath.Rel(r.root, filepath.Clean(abs))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRepository, p)
		}
		if rel == "." {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

// treeish names a revision side for git.
func treeish(side revision.Side) string {
	if side.ID != "" {
		return side.ID
	}
	if side.Kind == revision.KindBase {
		return "HEAD"
	}
	return side.Spec
}

// Kind reports what path names on side.
func (r *Repository) Kind(ctx context.Context, side revision.Side, path string) (invoke.EntryKind, error) {
	if path == "" {
		return invoke.EntryDir, nil
	}
	if side.IsWorkingTree() {
		info, err := r.fs.GetFileInfo(r.worktreePath(path))
		if err != nil {
			return invoke.EntryMissing, nil
		}
		if info.IsDir {
			return invoke.EntryDir, nil
		}
		return invoke.EntryFile, nil
	}

	result, err := r.git(ctx, "ls-tree", "-z", treeish(side), "--", path)
	if err != nil {
		return invoke.EntryMissing, err
	}
	if !result.Success() {
		return invoke.EntryMissing, fmt.Errorf("failed to inspect %s: %s", path, strings.TrimSpace(result.Stderr))
	}

	// <mode> SP <type> SP <object> TAB <path> NUL
	entry, _, _ := strings.Cut(result.Stdout, "\x00")
	meta, _, ok := strings.Cut(entry, "\t")
	if !ok {
		return invoke.EntryMissing, nil
	}
	fields := strings.Fields(meta)
	if len(fields) < 2 {
		return invoke.EntryMissing, nil
	}
	switch fields[1] {
	case "tree":
		return invoke.EntryDir, nil
	case "blob":
		return invoke.EntryFile, nil
	default:
		return invoke.EntryMissing, nil
	}
}

// Files lists the tracked files under paths at a revision. The working
// tree is never listed: it is compared in place.
func (r *Repository) Files(ctx context.Context, side revision.Side, paths []string) ([]string, error) {
	if side.IsWorkingTree() {
		return nil, errors.New("cannot list files of the working tree")
	}
	args := []string{"ls-tree", "-r", "-z", "--name-only", treeish(side), "--"}
	args = append(args, paths...)

	result, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("failed to list files: %s", strings.TrimSpace(result.Stderr))
	}
	return splitNUL(result.Stdout), nil
}

// Content returns path's content on side. Whether the path exists at a
// revision is decided by ls-tree, not by git's translated messages.
func (r *Repository) Content(ctx context.Context, side revision.Side, path string) ([]byte, error) {
	if side.IsWorkingTree() {
		full := r.worktreePath(path)
		if !r.fs.Exists(full) {
			return nil, fmt.Errorf("%s: %w", path, invoke.ErrNoSuchEntry)
		}
		return r.fs.ReadFile(full)
	}

	kind, err := r.Kind(ctx, side, path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case invoke.EntryMissing:
		return nil, fmt.Errorf("%s at %s: %w", path, side.Label(), invoke.ErrNoSuchEntry)
	case invoke.EntryDir:
		return nil, fmt.Errorf("%s at %s is a directory", path, side.Label())
	}

	result, err := r.git(ctx, "cat-file", "blob", treeish(side)+":"+path)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("failed to read %s: %s", path, strings.TrimSpace(result.Stderr))
	}
	return []byte(result.Stdout), nil
}

func (r *Repository) worktreePath(path string) string {
	return filepath.Join(r.root, filepath.FromSlash(path))
}

func splitNUL(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "\x00") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Ensure Repository implements invoke.Repository.
var _ invoke.Repository = (*Repository)(nil)
