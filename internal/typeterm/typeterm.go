// Package typeterm implements the canonical algebraic type term (spec.md
// component C): a hash-consed sum type with five variants (Var, Constr,
// Arrow, Tuple, Other), built exclusively through smart constructors that
// keep every term in the canonical form spec.md §3.1.2 requires.
package typeterm

import (
	"sort"
	"strings"
	"sync"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/tyvar"
)

// Kind identifies a Ty's variant. The relative order of the constants is
// load-bearing: it is the fixed tie-break spec.md §4.C requires
// (Var < Constr < Arrow < Tuple < Other).
type Kind int

const (
	KindVar Kind = iota
	KindConstr
	KindArrow
	KindTuple
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindConstr:
		return "constr"
	case KindArrow:
		return "arrow"
	case KindTuple:
		return "tuple"
	case KindOther:
		return "other"
	default:
		return "?"
	}
}

// Ty is a canonical, hash-consed type term. The zero Ty is not valid; every
// Ty in circulation was produced by an Env's constructors. Two Ty values
// from the same Env are structurally equal iff they compare pointer-equal.
type Ty struct {
	n *node
}

// Valid reports whether t was actually produced by an Env.
func (t Ty) Valid() bool { return t.n != nil }

// Kind returns the term's head variant.
func (t Ty) Kind() Kind { return t.n.kind }

// Tag returns the term's hash-cons tag: a monotone integer assigned the
// first time this exact canonical term was interned in its Env.
func (t Ty) Tag() uint64 { return t.n.tag }

// Var returns the variable identity for a KindVar term.
func (t Ty) Var() tyvar.Var { return t.n.v }

// ConstrPath returns the constructor path for a KindConstr term.
func (t Ty) ConstrPath() path.Path { return t.n.ctorPath }

// ConstrArgs returns the ordered constructor arguments for a KindConstr term.
func (t Ty) ConstrArgs() []Ty { return t.n.args }

// ArrowArgs returns the canonical, sorted argument multiset for a KindArrow
// term.
func (t Ty) ArrowArgs() []Ty { return t.n.args }

// ArrowReturn returns the return type for a KindArrow term.
func (t Ty) ArrowReturn() Ty { return t.n.ret }

// TupleElems returns the canonical, sorted component multiset for a
// KindTuple term.
func (t Ty) TupleElems() []Ty { return t.n.args }

// OtherHash returns the opaque hash for a KindOther term.
func (t Ty) OtherHash() uint64 { return t.n.otherHash }

type node struct {
	kind      Kind
	tag       uint64
	v         tyvar.Var
	ctorPath  path.Path
	args      []Ty // Constr: ordered args; Arrow/Tuple: sorted multiset
	ret       Ty   // Arrow only
	otherHash uint64
}

// Env groups a variable registry and the hash-cons table that all type
// construction for a session is parameterised by. Terms from different
// Envs must never be compared or mixed. The hash-cons table is guarded by
// a mutex, so terms may be built concurrently (unification does so during
// queries); the variable registry Vars is not safe for concurrent mutation.
type Env struct {
	Vars    *tyvar.Registry
	mu      sync.Mutex
	table   map[string]*node
	nextTag uint64
}

// NewEnv creates an empty type environment.
func NewEnv() *Env {
	return &Env{
		Vars:  tyvar.NewRegistry(),
		table: make(map[string]*node),
	}
}

// Size returns the number of distinct canonical terms interned so far.
func (e *Env) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.table)
}

func (e *Env) intern(key string, build func() *node) Ty {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.table[key]; ok {
		return Ty{n: n}
	}
	n := build()
	n.tag = e.nextTag
	e.nextTag++
	e.table[key] = n
	return Ty{n: n}
}

// NewVar wraps a variable as a Ty. Each distinct variable id interns to its
// own canonical node.
func (e *Env) NewVar(v tyvar.Var) Ty {
	key := "v:" + uitoa(uint64(v.ID()))
	return e.intern(key, func() *node {
		return &node{kind: KindVar, v: v}
	})
}

// FreshVar allocates a new variable from e's registry and wraps it.
func (e *Env) FreshVar() Ty {
	return e.NewVar(e.Vars.Fresh())
}

// NewOther wraps an opaque, unsupported-shape hash as a Ty.
func (e *Env) NewOther(hash uint64) Ty {
	key := "o:" + uitoa(hash)
	return e.intern(key, func() *node {
		return &node{kind: KindOther, otherHash: hash}
	})
}

// NewConstr applies a named constructor to ordered type arguments. Per
// spec.md §3.1.2, Constr(unit, []) rewrites to the empty tuple.
func (e *Env) NewConstr(p path.Path, args []Ty) Ty {
	if p.String() == "unit" && len(args) == 0 {
		return e.NewTuple(nil)
	}
	key := buildKey(KindConstr, p.String(), args, Ty{})
	return e.intern(key, func() *node {
		clone := make([]Ty, len(args))
		copy(clone, args)
		return &node{kind: KindConstr, ctorPath: p, args: clone}
	})
}

// NewTuple builds a tuple from an unordered multiset of components,
// applying spec.md §3.1.2's tuple normalisation: nested tuples flatten,
// singleton tuples collapse to their element, the empty tuple (unit) is
// permitted as-is.
func (e *Env) NewTuple(elts []Ty) Ty {
	flat := make([]Ty, 0, len(elts))
	for _, t := range elts {
		if t.Kind() == KindTuple {
			flat = append(flat, t.n.args...)
		} else {
			flat = append(flat, t)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sortMultiset(flat)
	key := buildKey(KindTuple, "", flat, Ty{})
	return e.intern(key, func() *node {
		return &node{kind: KindTuple, args: flat}
	})
}

// NewArrow builds a single curried arrow step Arrow(arg, ret), applying
// every uncurrying/flattening rule of spec.md §3.1.2:
//
//   - Arrow(Tuple(∅), r) collapses to r.
//   - Arrow(Tuple(ts), Arrow(as, r)) lifts ts into the outer argument set.
//   - Arrow(a, Arrow(as, r)) absorbs a as another curried argument.
//   - Arrow(Tuple(ts), r) with non-arrow r uncurries to Arrow(ts, r).
//   - Otherwise Arrow({a}, r).
//
// arg may itself be a Tuple(ts): tupled-argument syntax ("(a, b) -> c") and
// curried syntax ("a -> b -> c") normalise to the same Arrow shape.
func (e *Env) NewArrow(arg Ty, ret Ty) Ty {
	all := make([]Ty, 0, 4)
	if arg.Kind() == KindTuple {
		all = append(all, arg.n.args...)
	} else {
		all = append(all, arg)
	}

	// Absorb a curried return arrow: lift its own (already-canonical)
	// argument multiset into ours and adopt its return type.
	for ret.Kind() == KindArrow {
		all = append(all, ret.n.args...)
		ret = ret.n.ret
	}

	if len(all) == 0 {
		return ret
	}

	sortMultiset(all)
	key := buildKey(KindArrow, "", all, ret)
	return e.intern(key, func() *node {
		return &node{kind: KindArrow, args: all, ret: ret}
	})
}

// NewArrowN folds a slice of curried argument types (left to right) and a
// final return type into one canonical arrow via repeated NewArrow calls.
// NewArrowN(nil, r) returns r.
func (e *Env) NewArrowN(args []Ty, ret Ty) Ty {
	result := ret
	for i := len(args) - 1; i >= 0; i-- {
		result = e.NewArrow(args[i], result)
	}
	return result
}

func buildKey(k Kind, s string, elems []Ty, extra Ty) string {
	var b strings.Builder
	b.WriteByte(byte(k))
	b.WriteByte(0)
	b.WriteString(s)
	b.WriteByte(0)
	for _, el := range elems {
		writeTagKey(&b, el)
	}
	if extra.Valid() {
		b.WriteByte('|')
		writeTagKey(&b, extra)
	}
	return b.String()
}

func writeTagKey(b *strings.Builder, t Ty) {
	b.WriteString(uitoa(t.n.tag))
	b.WriteByte(',')
}

func uitoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// sortMultiset orders a slice of already-canonical Ty values by the total
// order Compare defines, in place.
func sortMultiset(ts []Ty) {
	sort.Slice(ts, func(i, j int) bool { return Compare(ts[i], ts[j]) < 0 })
}

// Compare gives the total order on canonical terms spec.md §4.C requires:
// a fixed kind ordering (Var < Constr < Arrow < Tuple < Other), then
// structural comparison within a kind. It does not depend on hash-cons
// intern order, so it can be used to sort multiset elements before they
// are themselves interned.
func Compare(a, b Ty) int {
	if a.n == b.n {
		return 0
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	switch a.Kind() {
	case KindVar:
		return intCompare(a.n.v.ID(), b.n.v.ID())
	case KindConstr:
		if c := a.n.ctorPath.Compare(b.n.ctorPath); c != 0 {
			return c
		}
		return compareSeq(a.n.args, b.n.args)
	case KindArrow:
		if c := compareSeq(a.n.args, b.n.args); c != 0 {
			return c
		}
		return Compare(a.n.ret, b.n.ret)
	case KindTuple:
		return compareSeq(a.n.args, b.n.args)
	case KindOther:
		return uint64Compare(a.n.otherHash, b.n.otherHash)
	default:
		return 0
	}
}

func compareSeq(a, b []Ty) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
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

func uint64Compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b are the same canonical term (pointer
// equality on the interned node, per spec.md §3.1.3).
func Equal(a, b Ty) bool { return a.n == b.n }

// Rebuild reconstructs t, replacing each free variable occurrence per
// replace and re-running the result through e's smart constructors so any
// shape changes (e.g. a variable bound to an arrow inside a tuple) are
// re-normalised. Used by substitution application.
func Rebuild(e *Env, t Ty, replace func(tyvar.Var) (Ty, bool)) Ty {
	switch t.Kind() {
	case KindVar:
		if r, ok := replace(t.Var()); ok {
			return r
		}
		return t
	case KindOther:
		return t
	case KindConstr:
		args := rebuildSeq(e, t.n.args, replace)
		return e.NewConstr(t.n.ctorPath, args)
	case KindTuple:
		args := rebuildSeq(e, t.n.args, replace)
		return e.NewTuple(args)
	case KindArrow:
		args := rebuildSeq(e, t.n.args, replace)
		ret := Rebuild(e, t.n.ret, replace)
		return e.NewArrowN(args, ret)
	default:
		return t
	}
}

func rebuildSeq(e *Env, ts []Ty, replace func(tyvar.Var) (Ty, bool)) []Ty {
	out := make([]Ty, len(ts))
	for i, t := range ts {
		out[i] = Rebuild(e, t, replace)
	}
	return out
}

// Vars lazily yields every variable occurrence in t, duplicates included,
// in a fixed left-to-right traversal order.
func Vars(t Ty) func(yield func(tyvar.Var) bool) {
	return func(yield func(tyvar.Var) bool) {
		varsInto(t, yield)
	}
}

func varsInto(t Ty, yield func(tyvar.Var) bool) bool {
	switch t.Kind() {
	case KindVar:
		return yield(t.Var())
	case KindConstr, KindTuple:
		for _, a := range t.n.args {
			if !varsInto(a, yield) {
				return false
			}
		}
		return true
	case KindArrow:
		for _, a := range t.n.args {
			if !varsInto(a, yield) {
				return false
			}
		}
		return varsInto(t.n.ret, yield)
	default:
		return true
	}
}

// Occurs reports whether v occurs free anywhere within t.
func Occurs(v tyvar.Var, t Ty) bool {
	found := false
	for occ := range Vars(t) {
		if occ.ID() == v.ID() {
			found = true
			break
		}
	}
	return found
}

// --- size metrics (spec.md §3.5) ---

// VarCount returns the number of distinct variables occurring in t.
func VarCount(t Ty) int {
	seen := map[int]bool{}
	for v := range Vars(t) {
		seen[v.ID()] = true
	}
	return len(seen)
}

// NodeCount returns the number of AST nodes in t (each Ty value, however
// shared via hash-consing, counts once per occurrence in the tree).
func NodeCount(t Ty) int {
	switch t.Kind() {
	case KindVar, KindOther:
		return 1
	case KindConstr, KindTuple:
		n := 1
		for _, a := range t.n.args {
			n += NodeCount(a)
		}
		return n
	case KindArrow:
		n := 1
		for _, a := range t.n.args {
			n += NodeCount(a)
		}
		return n + NodeCount(t.n.ret)
	default:
		return 1
	}
}

// HeadKind returns the integer encoding of t's head variant, for use as a
// cheap discrimination feature.
func HeadKind(t Ty) int { return int(t.Kind()) }

// TailLength returns the arity of t's outer arrow (0 if t is not an arrow).
func TailLength(t Ty) int {
	if t.Kind() != KindArrow {
		return 0
	}
	return len(t.n.args)
}

// RootVarCount returns how many of t's immediate children (arrow
// arguments, tuple elements, constructor arguments) are themselves bare
// variables; 0 for Var/Other.
func RootVarCount(t Ty) int {
	switch t.Kind() {
	case KindConstr, KindTuple:
		return countVars(t.n.args)
	case KindArrow:
		return countVars(t.n.args)
	default:
		return 0
	}
}

// TailRootVarCount returns how many of an arrow's argument-multiset entries
// are bare variables (0 if t is not an arrow).
func TailRootVarCount(t Ty) int {
	if t.Kind() != KindArrow {
		return 0
	}
	return countVars(t.n.args)
}

func countVars(ts []Ty) int {
	n := 0
	for _, t := range ts {
		if t.Kind() == KindVar {
			n++
		}
	}
	return n
}
