// Package subst implements finite variable→type substitutions (spec.md
// component D): application, composition, and the specificity order that
// ranks unifiers by how "committed" they are.
package subst

import (
	"sort"

	"github.com/typodex/typodex/internal/tyvar"
	"github.com/typodex/typodex/internal/typeterm"
)

// Subst is an immutable finite map from variable identity to a canonical
// type. The zero Subst is the empty (identity) substitution.
type Subst struct {
	bindings map[int]typeterm.Ty
}

// Empty returns the identity substitution.
func Empty() Subst {
	return Subst{}
}

// Singleton returns the substitution {v ↦ t}.
func Singleton(v tyvar.Var, t typeterm.Ty) Subst {
	return Subst{bindings: map[int]typeterm.Ty{v.ID(): t}}
}

// Len returns the number of non-identity bindings.
func (s Subst) Len() int { return len(s.bindings) }

// Lookup returns the binding for v, if any.
func (s Subst) Lookup(v tyvar.Var) (typeterm.Ty, bool) {
	if s.bindings == nil {
		return typeterm.Ty{}, false
	}
	t, ok := s.bindings[v.ID()]
	return t, ok
}

// Apply substitutes every bound variable occurring in t and re-normalises
// the result through env's smart constructors.
func (s Subst) Apply(env *typeterm.Env, t typeterm.Ty) typeterm.Ty {
	if s.bindings == nil {
		return t
	}
	return typeterm.Rebuild(env, t, func(v tyvar.Var) (typeterm.Ty, bool) {
		bound, ok := s.bindings[v.ID()]
		return bound, ok
	})
}

// Extend returns a new substitution with v ↦ t added; t is first fully
// substituted by s, and v ↦ t is applied to s's existing bindings, so
// chained bindings stay resolved in both directions (s must not already
// bind v).
func (s Subst) Extend(env *typeterm.Env, v tyvar.Var, t typeterm.Ty) Subst {
	resolved := s.Apply(env, t)
	single := Singleton(v, resolved)
	out := make(map[int]typeterm.Ty, len(s.bindings)+1)
	for k, v2 := range s.bindings {
		out[k] = single.Apply(env, v2)
	}
	out[v.ID()] = resolved
	return Subst{bindings: out}
}

// Compose returns the substitution equivalent to applying s first, then r:
// for all t, (s.Compose(r)).Apply(t) == r.Apply(s.Apply(t)).
func (s Subst) Compose(env *typeterm.Env, r Subst) Subst {
	out := make(map[int]typeterm.Ty, len(s.bindings)+len(r.bindings))
	for k, t := range s.bindings {
		out[k] = r.Apply(env, t)
	}
	for k, t := range r.bindings {
		if _, exists := out[k]; !exists {
			out[k] = t
		}
	}
	if len(out) == 0 {
		return Subst{}
	}
	return Subst{bindings: out}
}

type pair struct {
	v int
	t typeterm.Ty
}

func (s Subst) sortedPairs() []pair {
	pairs := make([]pair, 0, len(s.bindings))
	for v, t := range s.bindings {
		pairs = append(pairs, pair{v: v, t: t})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })
	return pairs
}

// nodeSum is the "unifier complexity" measure: the sum of NodeCount over
// every bound term.
func (s Subst) nodeSum() int {
	total := 0
	for _, t := range s.bindings {
		total += typeterm.NodeCount(t)
	}
	return total
}

// Compare implements the specificity order spec.md §4.D and §9 require:
// fewer non-identity bindings is smaller; among equal binding counts,
// smaller total bound-term complexity is smaller; ties break
// lexicographically on the sorted (variable id, bound term tag) pairs.
// The result follows the usual comparator convention: negative if a < b,
// zero if equal, positive if a > b. Smaller is "more general"/"better".
func Compare(a, b Subst) int {
	if c := intCompare(a.Len(), b.Len()); c != 0 {
		return c
	}
	if c := intCompare(a.nodeSum(), b.nodeSum()); c != 0 {
		return c
	}
	pa, pb := a.sortedPairs(), b.sortedPairs()
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if c := intCompare(pa[i].v, pb[i].v); c != 0 {
			return c
		}
		if c := typeterm.Compare(pa[i].t, pb[i].t); c != 0 {
			return c
		}
	}
	return intCompare(len(pa), len(pb))
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller of a and b under Compare, a on ties.
func Min(a, b Subst) Subst {
	if Compare(b, a) < 0 {
		return b
	}
	return a
}
