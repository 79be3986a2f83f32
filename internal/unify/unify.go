// Package unify implements the multiset-aware unification engine (spec.md
// component E): a lazy stream of every substitution unifying two type
// terms, where arrow arguments and tuple components are unordered
// multisets rather than ordered lists.
package unify

import (
	"iter"

	"github.com/typodex/typodex/internal/subst"
	"github.com/typodex/typodex/internal/typeterm"
	"github.com/typodex/typodex/internal/tyvar"
)

// Options tunes the search. The zero Options is not valid; use
// DefaultOptions.
type Options struct {
	// MaxPartitionArity bounds the larger side's arity in an unequal-size
	// multiset match. Above this bound that branch of the search is
	// abandoned (yields no unifier from it) rather than enumerating an
	// exponential number of partitions; correctness of what *is* emitted
	// is unaffected, only completeness under pathological arity mismatches
	// (spec.md §9).
	MaxPartitionArity int
}

// DefaultOptions returns the engine's default tuning.
func DefaultOptions() Options {
	return Options{MaxPartitionArity: 8}
}

type equation struct {
	l, r typeterm.Ty
}

// Unifiers returns a lazy sequence of every substitution unifying t1 and
// t2 under DefaultOptions. The sequence may be infinite in principle for
// pathological inputs; consumers are free to stop early.
func Unifiers(env *typeterm.Env, t1, t2 typeterm.Ty) iter.Seq[subst.Subst] {
	return UnifiersWithOptions(env, t1, t2, DefaultOptions())
}

// UnifiersWithOptions is Unifiers with explicit tuning.
func UnifiersWithOptions(env *typeterm.Env, t1, t2 typeterm.Ty, opts Options) iter.Seq[subst.Subst] {
	return func(yield func(subst.Subst) bool) {
		solve(env, []equation{{l: t1, r: t2}}, subst.Empty(), opts, yield)
	}
}

// Unify returns the smallest unifier under subst.Compare, if any exists.
func Unify(env *typeterm.Env, t1, t2 typeterm.Ty) (subst.Subst, bool) {
	return UnifyWithOptions(env, t1, t2, DefaultOptions())
}

// UnifyWithOptions is Unify with explicit tuning.
func UnifyWithOptions(env *typeterm.Env, t1, t2 typeterm.Ty, opts Options) (subst.Subst, bool) {
	best := subst.Empty()
	found := false
	for s := range UnifiersWithOptions(env, t1, t2, opts) {
		if !found || subst.Compare(s, best) < 0 {
			best = s
			found = true
		}
	}
	return best, found
}

// Unifiable reports whether t1 and t2 have at least one unifier.
func Unifiable(env *typeterm.Env, t1, t2 typeterm.Ty) bool {
	for range Unifiers(env, t1, t2) {
		return true
	}
	return false
}

// bindOp records a single variable binding produced while reducing one
// equation.
type bindOp struct {
	v tyvar.Var
	t typeterm.Ty
}

// branch is one non-deterministic way to reduce a single equation: zero or
// more replacement equations to solve, and an optional variable binding.
type branch struct {
	extra []equation
	bind  *bindOp
}

// solve performs the depth-first backtracking search described in spec.md
// §4.E. It returns false as soon as the consumer's yield asks to stop
// (mirroring the iter.Seq early-exit convention), true otherwise.
func solve(env *typeterm.Env, queue []equation, s subst.Subst, opts Options, yield func(subst.Subst) bool) bool {
	if len(queue) == 0 {
		return yield(s)
	}

	idx := selectNext(queue)
	eq := queue[idx]
	rest := make([]equation, 0, len(queue)-1)
	rest = append(rest, queue[:idx]...)
	rest = append(rest, queue[idx+1:]...)

	for _, br := range branchesFor(env, eq.l, eq.r, opts) {
		var (
			newSubst = s
			newQueue []equation
		)
		if br.bind != nil {
			newSubst = s.Extend(env, br.bind.v, br.bind.t)
			merged := make([]equation, 0, len(br.extra)+len(rest))
			merged = append(merged, br.extra...)
			merged = append(merged, rest...)
			newQueue = applySubst(env, newSubst, merged)
		} else {
			newQueue = make([]equation, 0, len(br.extra)+len(rest))
			newQueue = append(newQueue, br.extra...)
			newQueue = append(newQueue, rest...)
		}
		if !solve(env, newQueue, newSubst, opts, yield) {
			return false
		}
	}
	return true
}

// selectNext prefers a variable-headed equation, so that binding branches
// (which prune the search fastest) are explored first, per spec.md §4.E's
// pruning guidance.
func selectNext(queue []equation) int {
	for i, eq := range queue {
		if eq.l.Kind() == typeterm.KindVar || eq.r.Kind() == typeterm.KindVar {
			return i
		}
	}
	return 0
}

func applySubst(env *typeterm.Env, s subst.Subst, eqs []equation) []equation {
	out := make([]equation, len(eqs))
	for i, eq := range eqs {
		out[i] = equation{l: s.Apply(env, eq.l), r: s.Apply(env, eq.r)}
	}
	return out
}

// branchesFor reduces one equation to its non-deterministic set of
// continuations, per the case analysis of spec.md §4.E.
func branchesFor(env *typeterm.Env, l, r typeterm.Ty, opts Options) []branch {
	if l.Kind() == typeterm.KindVar || r.Kind() == typeterm.KindVar {
		return varBranches(l, r)
	}
	if l.Kind() != r.Kind() {
		return nil
	}
	switch l.Kind() {
	case typeterm.KindOther:
		if l.OtherHash() == r.OtherHash() {
			return []branch{{}}
		}
		return nil
	case typeterm.KindConstr:
		if l.ConstrPath().Compare(r.ConstrPath()) != 0 {
			return nil
		}
		la, ra := l.ConstrArgs(), r.ConstrArgs()
		if len(la) != len(ra) {
			return nil
		}
		extra := make([]equation, len(la))
		for i := range la {
			extra[i] = equation{l: la[i], r: ra[i]}
		}
		return []branch{{extra: extra}}
	case typeterm.KindTuple:
		return multisetBranches(env, l.TupleElems(), r.TupleElems(), opts, nil)
	case typeterm.KindArrow:
		tail := equation{l: l.ArrowReturn(), r: r.ArrowReturn()}
		return multisetBranches(env, l.ArrowArgs(), r.ArrowArgs(), opts, []equation{tail})
	default:
		return nil
	}
}

func varBranches(l, r typeterm.Ty) []branch {
	if l.Kind() == typeterm.KindVar && r.Kind() == typeterm.KindVar && l.Var().ID() == r.Var().ID() {
		return []branch{{}}
	}
	if l.Kind() == typeterm.KindVar {
		v := l.Var()
		if typeterm.Occurs(v, r) {
			return nil
		}
		return []branch{{bind: &bindOp{v: v, t: r}}}
	}
	v := r.Var()
	if typeterm.Occurs(v, l) {
		return nil
	}
	return []branch{{bind: &bindOp{v: v, t: l}}}
}

// multisetBranches enumerates every way to pair the elements of a and b
// (spec.md §4.E's "multiset match"), appending trailer to each branch's
// equation list (used by Arrow to also carry the return-type equation).
func multisetBranches(env *typeterm.Env, a, b []typeterm.Ty, opts Options, trailer []equation) []branch {
	if len(a) == len(b) {
		var out []branch
		for _, perm := range permutations(len(a)) {
			extra := make([]equation, 0, len(a)+len(trailer))
			for i, j := range perm {
				extra = append(extra, equation{l: a[i], r: b[j]})
			}
			extra = append(extra, trailer...)
			out = append(out, branch{extra: extra})
		}
		return out
	}

	smaller, larger := a, b
	if len(a) > len(b) {
		smaller, larger = b, a
	}
	k := len(smaller)
	if k == 0 {
		// One side is the empty multiset and the other is not: no
		// pairing exists (an empty tuple/arrow-tail cannot unify with a
		// non-empty one).
		return nil
	}
	if len(larger) > opts.MaxPartitionArity {
		return nil
	}

	var out []branch
	for _, assignment := range surjections(len(larger), k) {
		groups := make([][]typeterm.Ty, k)
		for elemIdx, bin := range assignment {
			groups[bin] = append(groups[bin], larger[elemIdx])
		}
		extra := make([]equation, 0, k+len(trailer))
		for i := 0; i < k; i++ {
			grouped := env.NewTuple(groups[i])
			extra = append(extra, equation{l: grouped, r: smaller[i]})
		}
		extra = append(extra, trailer...)
		out = append(out, branch{extra: extra})
	}
	return out
}

// permutations returns every permutation of {0, ..., n-1}, in a fixed
// deterministic order.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var out [][]int
	var rec func(prefix []int, remaining []int)
	rec = func(prefix []int, remaining []int) {
		if len(remaining) == 0 {
			cp := make([]int, len(prefix))
			copy(cp, prefix)
			out = append(out, cp)
			return
		}
		for i, v := range remaining {
			next := make([]int, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			rec(append(prefix, v), next)
		}
	}
	rec(nil, idx)
	return out
}

// surjections returns every surjective assignment of n labeled items to k
// labeled non-empty bins (0 <= bin < k), in a fixed deterministic order.
func surjections(n, k int) [][]int {
	if k > n {
		return nil
	}
	assignment := make([]int, n)
	counts := make([]int, k)
	var out [][]int
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			for _, c := range counts {
				if c == 0 {
					return
				}
			}
			cp := make([]int, n)
			copy(cp, assignment)
			out = append(out, cp)
			return
		}
		remaining := n - i
		for bin := 0; bin < k; bin++ {
			emptyBinsExcl := 0
			for b, c := range counts {
				if b != bin && c == 0 {
					emptyBinsExcl++
				}
			}
			if remaining-1 < emptyBinsExcl {
				continue
			}
			assignment[i] = bin
			counts[bin]++
			rec(i + 1)
			counts[bin]--
		}
	}
	rec(0)
	return out
}
