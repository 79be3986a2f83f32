// Package feature implements the cheap, small-domain feature extractors
// (spec.md component F) used to prune trie candidates before unification
// runs.
package feature

import "github.com/typodex/typodex/internal/typeterm"

// Value is a totally-ordered, small-domain feature value.
type Value int

// Feature is a pure function from a type to a small-domain value, paired
// with a compatibility predicate the trie uses to decide which edges must
// be descended for a given query value.
type Feature struct {
	// Name identifies the feature for diagnostics and persisted-index
	// versioning.
	Name string

	// Compute extracts the feature value from a type.
	Compute func(t typeterm.Ty) Value

	// Compatible reports whether an indexed entry with entryValue could
	// unify with a query whose feature value is queryValue. It must be
	// conservative: false only when unification is provably impossible.
	Compatible func(queryValue, entryValue Value) bool
}

// ByHead distinguishes var-headed types from constructor/arrow/tuple/other
// headed ones. A var-headed entry can unify with any non-Other query (it
// might bind to anything), so it is always considered compatible, and so
// is every entry for a var-headed query; otherwise heads must match
// exactly.
var ByHead = Feature{
	Name:    "head",
	Compute: func(t typeterm.Ty) Value { return Value(typeterm.HeadKind(t)) },
	Compatible: func(query, entry Value) bool {
		if entry == Value(typeterm.KindVar) {
			return true
		}
		if query == Value(typeterm.KindVar) {
			return true
		}
		return query == entry
	},
}

// TailLength is the arity of a type's outer arrow (0 for non-arrows). A
// query of tail length k may still match an entry of tail length >= k,
// since multiset partitioning can fold several entry arguments into one
// tupled query argument (spec.md §4.F); it may also match an entry with
// tail length 0 that is itself a bare variable, or vice versa, hence the
// var-head escape hatch here too.
var TailLength = Feature{
	Name:    "tail-length",
	Compute: func(t typeterm.Ty) Value { return Value(typeterm.TailLength(t)) },
	Compatible: func(query, entry Value) bool {
		if query == 0 || entry == 0 {
			return true
		}
		return entry >= query
	},
}

// Set is the ordered list of features a trie is keyed on.
type Set []Feature

// Default is the feature set spec.md §4.F names: head kind, then tail
// length.
var Default = Set{ByHead, TailLength}

// Vector computes every feature in the set for t, in order.
func (s Set) Vector(t typeterm.Ty) []Value {
	out := make([]Value, len(s))
	for i, f := range s {
		out[i] = f.Compute(t)
	}
	return out
}
