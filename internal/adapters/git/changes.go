package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
)

// Changes runs git diff between the two sides and parses its output.
func (r *Repository) Changes(ctx context.Context, pair revision.Pair, paths []string) ([]invoke.Change, error) {
	if pair.Old.IsWorkingTree() {
		// git diff only puts the working tree on the new side.
		return nil, fmt.Errorf("cannot compare the working tree against %s", pair.New.Label())
	}

	// Fixed prefixes and repository-relative names, whatever diff.noprefix,
	// diff.mnemonicPrefix or diff.relative say.
	args := []string{
		"diff", "--no-color", "--no-ext-diff", "--no-textconv", "--no-relative",
		"--src-prefix=a/", "--dst-prefix=b/", "-M", "-U0", treeish(pair.Old),
	}
	if !pair.New.IsWorkingTree() {
		args = append(args, treeish(pair.New))
	}
	args = append(args, "--")
	args = append(args, paths...)

	result, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("git diff failed: %s", strings.TrimSpace(result.Stderr))
	}
	return parseChanges(result.Stdout)
}

// parseChanges converts git diff output into changes.
func parseChanges(diff string) ([]invoke.Change, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return nil, fmt.Errorf("failed to parse git diff output: %w", err)
	}

	changes := make([]invoke.Change, 0, len(files))
	for _, f := range files {
		ch := invoke.Change{
			OldPath:     f.OldName,
			NewPath:     f.NewName,
			TextChanged: f.IsBinary || len(f.TextFragments) > 0,
		}
		switch {
		case f.IsNew:
			ch.Op = invoke.OpAdded
			ch.OldPath = ""
		case f.IsDelete:
			ch.Op = invoke.OpDeleted
			ch.NewPath = ""
		case f.IsRename:
			ch.Op = invoke.OpRenamed
		default:
			ch.Op = invoke.OpModified
		}
		// Empty files are added or deleted without a hunk.
		if (f.IsNew || f.IsDelete) && !ch.TextChanged {
			ch.TextChanged = true
		}
		changes = append(changes, ch)
	}
	return changes, nil
}
