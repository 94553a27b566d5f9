package invoke

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/domain/revision"
)

const repoRoot = "/repo"

// fakeRepo serves trees keyed by revision spec. "HEAD" is the base and
// "working" the working tree.
type fakeRepo struct {
	trees     map[string]map[string]string
	mergeBase string
	resolved  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{trees: make(map[string]map[string]string)}
}

func treeKey(side revision.Side) string {
	switch side.Kind {
	case revision.KindBase:
		return "HEAD"
	case revision.KindWorkingTree:
		return "working"
	default:
		return side.Spec
	}
}

func (r *fakeRepo) Root() string { return repoRoot }

func (r *fakeRepo) Resolve(_ context.Context, pair revision.Pair) (revision.Pair, error) {
	r.resolved++
	for _, side := range []*revision.Side{&pair.Old, &pair.New} {
		if side.Kind != revision.KindRevision {
			continue
		}
		if _, ok := r.trees[side.Spec]; !ok {
			return revision.Pair{}, fmt.Errorf("unknown revision %q", side.Spec)
		}
		side.ID = "c0ffee" + side.Spec
	}
	if pair.MergeBase {
		pair.Old = revision.Side{Kind: revision.KindRevision, Spec: r.mergeBase, ID: "c0ffee" + r.mergeBase}
		pair.MergeBase = false
	}
	return pair, nil
}

func (r *fakeRepo) Normalize(_ context.Context, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		p = strings.TrimPrefix(strings.TrimPrefix(filepath.ToSlash(p), repoRoot), "/")
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func under(path string, paths []string) bool {
	if len(paths) == 0 {
		return true
	}
	for _, p := range paths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Changes(_ context.Context, pair revision.Pair, paths []string) ([]Change, error) {
	oldTree, newTree := r.trees[treeKey(pair.Old)], r.trees[treeKey(pair.New)]

	seen := make(map[string]bool)
	for p := range oldTree {
		seen[p] = true
	}
	for p := range newTree {
		seen[p] = true
	}

	var changes []Change
	for p := range seen {
		if !under(p, paths) {
			continue
		}
		oldContent, inOld := oldTree[p]
		newContent, inNew := newTree[p]
		switch {
		case inOld && !inNew:
			changes = append(changes, Change{Op: OpDeleted, OldPath: p, TextChanged: true})
		case !inOld && inNew:
			changes = append(changes, Change{Op: OpAdded, NewPath: p, TextChanged: true})
		case oldContent != newContent:
			changes = append(changes, Change{Op: OpModified, OldPath: p, NewPath: p, TextChanged: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path() < changes[j].Path() })
	return changes, nil
}

func (r *fakeRepo) Kind(_ context.Context, side revision.Side, path string) (EntryKind, error) {
	tree := r.trees[treeKey(side)]
	if _, ok := tree[path]; ok {
		return EntryFile, nil
	}
	for p := range tree {
		if strings.HasPrefix(p, path+"/") {
			return EntryDir, nil
		}
	}
	return EntryMissing, nil
}

func (r *fakeRepo) Files(_ context.Context, side revision.Side, paths []string) ([]string, error) {
	var files []string
	for p := range r.trees[treeKey(side)] {
		if under(p, paths) {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *fakeRepo) Content(_ context.Context, side revision.Side, path string) ([]byte, error) {
	content, ok := r.trees[treeKey(side)][path]
	if !ok {
		return nil, fmt.Errorf("%s at %s: %w", path, side.Spec, ErrNoSuchEntry)
	}
	return []byte(content), nil
}

type fakePrompter struct {
	answer bool
	asked  []string
}

func (p *fakePrompter) Confirm(_ context.Context, question string) (bool, error) {
	p.asked = append(p.asked, question)
	return p.answer, nil
}
