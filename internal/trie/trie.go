// Package trie implements the feature-indexed discrimination tree (spec.md
// component G): a right-nested tree keyed by a fixed sequence of cheap
// features, whose leaves hold cells grouping entries by exact canonical
// type.
package trie

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/typodex/typodex/internal/feature"
	"github.com/typodex/typodex/internal/typeterm"
)

// EntryID identifies an Info record external to the trie (owned by the
// index package).
type EntryID uint32

// Cell groups every EntryID indexed under one exact canonical type, per
// spec.md §4.J.
type Cell struct {
	Type    typeterm.Ty
	Entries *roaring.Bitmap
}

func newCell(t typeterm.Ty) *Cell {
	return &Cell{Type: t, Entries: roaring.New()}
}

type node struct {
	children map[feature.Value]*node
	leaf     map[uint64]*Cell // keyed by type tag, only set on leaf nodes
}

// Trie is a nested discrimination tree keyed by a fixed feature.Set.
// Insertion and lookup are not safe for concurrent mutation; a Trie that
// has finished being built is safe for concurrent read-only Candidates
// calls.
type Trie struct {
	features feature.Set
	root     *node
	size     int
}

// New creates an empty trie keyed by the given feature set (spec.md's
// default is feature.Default: ByHead, then TailLength).
func New(features feature.Set) *Trie {
	return &Trie{features: features, root: &node{}}
}

// Features returns the feature set this trie is keyed on.
func (tr *Trie) Features() feature.Set { return tr.features }

// Len returns the number of (entry, type) pairs inserted.
func (tr *Trie) Len() int { return tr.size }

// Add inserts id under t's feature vector, creating trie edges as needed
// and placing id into the leaf cell keyed by t's exact canonical type.
func (tr *Trie) Add(t typeterm.Ty, id EntryID) {
	vec := tr.features.Vector(t)
	n := tr.root
	for _, v := range vec {
		if n.children == nil {
			n.children = make(map[feature.Value]*node)
		}
		child, ok := n.children[v]
		if !ok {
			child = &node{}
			n.children[v] = child
		}
		n = child
	}
	if n.leaf == nil {
		n.leaf = make(map[uint64]*Cell)
	}
	cell, ok := n.leaf[t.Tag()]
	if !ok {
		cell = newCell(t)
		n.leaf[t.Tag()] = cell
	}
	cell.Entries.Add(uint32(id))
	tr.size++
}

// Candidates lazily yields every leaf cell reachable from the query's
// feature vector. In filtered mode it descends only edges whose feature
// value is Feature.Compatible with the query's; in exhaustive mode it
// visits every leaf regardless. Traversal order is deterministic: children
// are visited in ascending feature-value order at each level, and cells
// within a leaf in ascending type-tag order (spec.md §5).
func (tr *Trie) Candidates(query typeterm.Ty, exhaustive bool) func(yield func(*Cell) bool) {
	qvec := tr.features.Vector(query)
	return func(yield func(*Cell) bool) {
		walk(tr.root, tr.features, qvec, 0, exhaustive, yield)
	}
}

func walk(n *node, features feature.Set, qvec []feature.Value, level int, exhaustive bool, yield func(*Cell) bool) bool {
	if n == nil {
		return true
	}
	if level == len(features) {
		for _, tag := range sortedTags(n.leaf) {
			if !yield(n.leaf[tag]) {
				return false
			}
		}
		return true
	}
	for _, key := range sortedKeys(n.children) {
		if !exhaustive && !features[level].Compatible(qvec[level], key) {
			continue
		}
		if !walk(n.children[key], features, qvec, level+1, exhaustive, yield) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[feature.Value]*node) []feature.Value {
	out := make([]feature.Value, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedTags(m map[uint64]*Cell) []uint64 {
	out := make([]uint64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All yields every cell in the trie regardless of feature values,
// equivalent to Candidates with a query whose feature vector is ignored.
func (tr *Trie) All() func(yield func(*Cell) bool) {
	return func(yield func(*Cell) bool) {
		var walkAll func(n *node, level int) bool
		walkAll = func(n *node, level int) bool {
			if n == nil {
				return true
			}
			if level == len(tr.features) {
				for _, tag := range sortedTags(n.leaf) {
					if !yield(n.leaf[tag]) {
						return false
					}
				}
				return true
			}
			for _, key := range sortedKeys(n.children) {
				if !walkAll(n.children[key], level+1) {
					return false
				}
			}
			return true
		}
		walkAll(tr.root, 0)
	}
}
