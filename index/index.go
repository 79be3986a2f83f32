package index

import (
	"fmt"
	"iter"
	"strings"

	"github.com/typodex/typodex/internal/feature"
	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/rank"
	"github.com/typodex/typodex/internal/trie"
	"github.com/typodex/typodex/internal/typeterm"
	"github.com/typodex/typodex/internal/unify"
	"github.com/typodex/typodex/library"
)

// Index is a built, queryable collection of harvested entries. An Index
// built via Build/Insert is single-writer; once inserts stop, Find and
// FindWith are safe to call concurrently (the terms they build during
// unification are interned under the Env's lock).
type Index struct {
	env     *typeterm.Env
	feats   feature.Set
	tr      *trie.Trie
	entries []Info
	libs    *library.InMemoryStore
	opts    unify.Options
}

// Options configures Index construction.
type Options struct {
	// Features selects the trie's discrimination keys. The zero value uses
	// feature.Default.
	Features feature.Set
	// Unify tunes the unification engine used during Find/FindWith. The
	// zero value uses unify.DefaultOptions().
	Unify unify.Options
}

func (o Options) resolve() Options {
	if o.Features == nil {
		o.Features = feature.Default
	}
	if o.Unify.MaxPartitionArity == 0 {
		o.Unify = unify.DefaultOptions()
	}
	return o
}

// New creates an empty index over env, ready for Insert calls.
func New(env *typeterm.Env, opts Options) *Index {
	opts = opts.resolve()
	return &Index{
		env:   env,
		feats: opts.Features,
		tr:    trie.New(opts.Features),
		libs:  library.NewInMemoryStore(),
		opts:  opts.Unify,
	}
}

// Build consumes a finite stream of Info, canonicalising nothing further
// (entries must already carry types built through env's constructors) and
// returns a ready-to-query Index (spec.md §4.H's build).
func Build(env *typeterm.Env, opts Options, entries iter.Seq[Info]) *Index {
	ix := New(env, opts)
	for info := range entries {
		ix.Insert(info)
	}
	return ix
}

// Env returns the type environment this index's terms belong to. Terms
// from a different Env must never be passed to Find/FindWith.
func (ix *Index) Env() *typeterm.Env { return ix.env }

// Len returns the number of entries inserted.
func (ix *Index) Len() int { return len(ix.entries) }

// Insert adds one entry to the index, indexing it in the trie and
// recording its owning library by path prefix (spec.md §4.H build step,
// generalised to incremental insertion).
func (ix *Index) Insert(info Info) {
	id := trie.EntryID(len(ix.entries))
	ix.entries = append(ix.entries, info)
	ix.tr.Add(info.Type, id)
	ix.registerLibrary(info.Path)
}

func (ix *Index) registerLibrary(p path.Path) {
	head, ok := p.Head()
	if !ok {
		return
	}
	id := library.ID(head, "")
	if _, err := ix.libs.Describe(id); err == nil {
		return
	}
	_, _ = ix.libs.Register(library.Library{Name: head, Root: path.New(head)})
}

// FindOptions configures Find/FindWith.
type FindOptions struct {
	// Pkgs restricts results to entries whose path's first segment is one
	// of these names. Empty means no restriction.
	Pkgs []string
	// Limit caps the number of results. Negative means unlimited, zero
	// means emit nothing, positive caps at that many.
	Limit int
}

// DefaultFindOptions returns unlimited, unfiltered options.
func DefaultFindOptions() FindOptions {
	return FindOptions{Limit: -1}
}

// Find runs an exhaustive query: it visits every leaf cell regardless of
// feature compatibility (spec.md §4.H's find).
func (ix *Index) Find(query typeterm.Ty, opts FindOptions) (iter.Seq[Result], error) {
	return ix.find(query, opts, true)
}

// FindWith runs a feature-filtered query, pruning trie descent by
// Feature.Compatible (spec.md §4.H's find_with).
func (ix *Index) FindWith(query typeterm.Ty, opts FindOptions) (iter.Seq[Result], error) {
	return ix.find(query, opts, false)
}

func (ix *Index) find(query typeterm.Ty, opts FindOptions, exhaustive bool) (iter.Seq[Result], error) {
	if len(opts.Pkgs) > 0 {
		if err := ix.checkPkgs(opts.Pkgs); err != nil {
			return nil, err
		}
	}
	pkgSet := toSet(opts.Pkgs)

	return func(yield func(Result) bool) {
		if opts.Limit == 0 {
			return
		}
		matches, infos := ix.collectMatches(query, exhaustive, pkgSet)
		rank.Sort(matches)

		n := 0
		for _, m := range matches {
			if opts.Limit > 0 && n >= opts.Limit {
				return
			}
			info := infos[m.Entry]
			if !yield(Result{Path: info.Path, Type: m.Type, Subst: m.Subst}) {
				return
			}
			n++
		}
	}, nil
}

func (ix *Index) collectMatches(query typeterm.Ty, exhaustive bool, pkgs map[string]bool) ([]rank.Match[int], []Info) {
	var matches []rank.Match[int]
	var infos []Info
	for cell := range ix.tr.Candidates(query, exhaustive) {
		s, ok := unify.UnifyWithOptions(ix.env, query, cell.Type, ix.opts)
		if !ok {
			continue
		}
		for _, info := range ix.cellInfos(cell) {
			if len(pkgs) > 0 {
				head, _ := info.Path.Head()
				if !pkgs[head] {
					continue
				}
			}
			idx := len(infos)
			infos = append(infos, info)
			matches = append(matches, rank.Match[int]{Entry: idx, Type: cell.Type, Subst: s})
		}
	}
	return matches, infos
}

// cellInfos expands a cell to its member entries, deduplicating re-exports
// that share a signature and preferring a non-internal path when one
// exists (spec.md §4.J).
func (ix *Index) cellInfos(cell *trie.Cell) []Info {
	var raw []Info
	it := cell.Entries.Iterator()
	for it.HasNext() {
		raw = append(raw, ix.entries[it.Next()])
	}
	return dedupeBySignature(raw)
}

func dedupeBySignature(infos []Info) []Info {
	best := make(map[string]Info, len(infos))
	order := make([]string, 0, len(infos))
	for _, info := range infos {
		sig := info.Path.Signature()
		existing, ok := best[sig]
		if !ok {
			best[sig] = info
			order = append(order, sig)
			continue
		}
		if existing.Path.IsInternal() && !info.Path.IsInternal() {
			best[sig] = info
		}
	}
	out := make([]Info, 0, len(order))
	for _, sig := range order {
		out = append(out, best[sig])
	}
	return out
}

// Iter walks every stored entry (spec.md §4.H's iter).
func (ix *Index) Iter() iter.Seq[Info] {
	return func(yield func(Info) bool) {
		for _, info := range ix.entries {
			if !yield(info) {
				return
			}
		}
	}
}

// Libraries returns every library discovered while inserting entries.
func (ix *Index) Libraries() []library.Library {
	return ix.libs.List()
}

func (ix *Index) checkPkgs(pkgs []string) error {
	for _, p := range pkgs {
		if _, err := ix.libs.Describe(library.ID(p, "")); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPackage, strings.Join(pkgs, ", "))
}

func toSet(ss []string) map[string]bool {
	if len(ss) == 0 {
		return nil
	}
	out := make(map[string]bool, len(ss))
	for _, s := range ss {
		out[s] = true
	}
	return out
}
