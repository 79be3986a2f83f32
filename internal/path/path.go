// Package path implements the dotted qualified identifiers ("long
// identifiers") used to name harvested library entries.
package path

import (
	"hash/maphash"
	"strings"
)

var seed = maphash.MakeSeed()

// Path is a dotted, qualified identifier such as "List.map" or
// "Data.Map.Strict.insert". It is immutable value type; the zero Path is
// the empty identifier.
type Path struct {
	segments []string
}

// New builds a Path from its dot-separated segments.
func New(segments ...string) Path {
	if len(segments) == 0 {
		return Path{}
	}
	clone := make([]string, len(segments))
	copy(clone, segments)
	return Path{segments: clone}
}

// Parse splits a dotted string into a Path. Empty segments (leading,
// trailing or doubled dots) are dropped.
func Parse(s string) Path {
	raw := strings.Split(s, ".")
	segs := make([]string, 0, len(raw))
	for _, r := range raw {
		if r != "" {
			segs = append(segs, r)
		}
	}
	return Path{segments: segs}
}

// Segments returns the path's dot-separated components. The returned slice
// must not be mutated by the caller.
func (p Path) Segments() []string {
	return p.segments
}

// Head returns the first segment (typically a library/package name) and
// whether the path is non-empty.
func (p Path) Head() (string, bool) {
	if len(p.segments) == 0 {
		return "", false
	}
	return p.segments[0], true
}

// IsInternal reports whether any segment contains "__", the convention used
// by harvested re-export shims for implementation-only paths.
func (p Path) IsInternal() bool {
	for _, s := range p.segments {
		if strings.Contains(s, "__") {
			return true
		}
	}
	return false
}

// String renders the path in dotted form.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// Signature returns a comparison key that ignores internal (__-marked)
// segments' exact spelling, humanising re-export shims so that "List__impl.map"
// and "List.map" collapse to the same signature. Used by index cell
// deduplication (spec.md §4.J).
func (p Path) Signature() string {
	out := make([]string, len(p.segments))
	for i, s := range p.segments {
		if idx := strings.Index(s, "__"); idx >= 0 {
			s = s[:idx]
		}
		out[i] = s
	}
	return strings.Join(out, ".")
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// Compare gives a total order over paths, segment by segment, then by
// length. It is used to keep trie edges and cell listings deterministic.
func (p Path) Compare(o Path) int {
	n := len(p.segments)
	if len(o.segments) < n {
		n = len(o.segments)
	}
	for i := 0; i < n; i++ {
		if p.segments[i] != o.segments[i] {
			if p.segments[i] < o.segments[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p.segments) < len(o.segments):
		return -1
	case len(p.segments) > len(o.segments):
		return 1
	default:
		return 0
	}
}

// Hash returns a process-stable, non-cryptographic hash of the path,
// suitable for use as a hash-cons or trie bucket key.
func (p Path) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, s := range p.segments {
		_, _ = h.WriteString(s)
		_ = h.WriteByte(0)
	}
	return h.Sum64()
}
