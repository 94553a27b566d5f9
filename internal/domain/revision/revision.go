// Package revision models the pair of content sources compared by one diff.
package revision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/extdiff/internal/validation"
)

// Kind identifies where a side's content comes from.
type Kind int

const (
	// KindBase is the tree's default base (HEAD for git).
	KindBase Kind = iota
	// KindWorkingTree is the live checkout, read in place.
	KindWorkingTree
	// KindRevision is a historical snapshot named by a specifier.
	KindRevision
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindWorkingTree:
		return "working-tree"
	case KindRevision:
		return "revision"
	default:
		return "unknown"
	}
}

// Side is one content source of a comparison.
type Side struct {
	Kind Kind
	// Spec is the user's specifier for KindRevision.
	Spec string
	// ID is the resolved object name, filled in by the host. It stays
	// empty for the working tree.
	ID string
}

// Base returns the default base side.
func Base() Side { return Side{Kind: KindBase} }

// WorkingTree returns the working tree side.
func WorkingTree() Side { return Side{Kind: KindWorkingTree} }

// At returns a side for a historical revision.
func At(spec string) Side { return Side{Kind: KindRevision, Spec: spec} }

// IsWorkingTree reports whether the side is read in place.
func (s Side) IsWorkingTree() bool { return s.Kind == KindWorkingTree }

// Label returns a short human-readable name, used in staging directory names.
func (s Side) Label() string {
	switch s.Kind {
	case KindWorkingTree:
		return "working"
	case KindBase:
		return "base"
	}
	if s.ID != "" {
		return "rev" + shortID(s.ID)
	}
	return "rev" + sanitize(s.Spec)
}

// Pair is the two sides of one comparison, old first.
type Pair struct {
	Old Side
	New Side
	// MergeBase asks the host to replace Old with the merge base of Old and New.
	MergeBase bool
}

// String describes the pair for logs.
func (p Pair) String() string {
	return fmt.Sprintf("%s..%s", p.Old.describe(), p.New.describe())
}

func (s Side) describe() string {
	if s.Kind == KindRevision {
		return s.Spec
	}
	return s.Kind.String()
}

// ErrTooManySpecs is returned when more than two specifiers are given.
var ErrTooManySpecs = errors.New("--revision takes exactly one or two revision specifiers")

// ParsePair builds a Pair from the --revision values, which may be repeated
// or use the host's range forms:
//
//	(none)   base vs working tree
//	A        A vs working tree
//	A..      A vs working tree
//	A..B     A vs B (also -r A -r B)
//	..B      base vs B
//	A...B    merge-base(A, B) vs B
func ParsePair(specs []string) (Pair, error) {
	var parts []string
	mergeBase := false

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			return Pair{}, errors.New("empty revision specifier")
		}

		sep := ".."
		if strings.Contains(spec, "...") {
			sep = "..."
			mergeBase = true
		}
		if !strings.Contains(spec, sep) {
			parts = append(parts, spec)
			continue
		}

		left, right, _ := strings.Cut(spec, sep)
		if strings.Contains(right, "..") {
			return Pair{}, ErrTooManySpecs
		}
		parts = append(parts, left, right)
	}

	if len(parts) > 2 {
		return Pair{}, ErrTooManySpecs
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		if err := validation.ValidateRevision(part); err != nil {
			return Pair{}, err
		}
	}

	pair := Pair{Old: Base(), New: WorkingTree(), MergeBase: mergeBase}
	switch len(parts) {
	case 0:
		return pair, nil
	case 1:
		pair.Old = At(parts[0])
		return pair, nil
	}

	if parts[0] != "" {
		pair.Old = At(parts[0])
	}
	if parts[1] != "" {
		pair.New = At(parts[1])
	}
	if pair.MergeBase && (pair.Old.Kind != KindRevision || pair.New.Kind != KindRevision) {
		return Pair{}, fmt.Errorf("%q needs revisions on both sides", parts[0]+"..."+parts[1])
	}
	return pair, nil
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

// sanitize keeps specifiers like "HEAD~1" or "origin/main" usable in file names.
func sanitize(spec string) string {
	var b strings.Builder
	for _, r := range spec {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
