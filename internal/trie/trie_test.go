package trie

import (
	"testing"

	"github.com/typodex/typodex/internal/feature"
	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/typeterm"
)

func mustPath(t *testing.T, s string) path.Path {
	t.Helper()
	return path.Parse(s)
}

func collect(tr *Trie, query typeterm.Ty, exhaustive bool) []*Cell {
	var out []*Cell
	for cell := range tr.Candidates(query, exhaustive) {
		out = append(out, cell)
	}
	return out
}

func TestAddAndExhaustiveCandidates(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	strTy := env.NewConstr(mustPath(t, "string"), nil)
	arrow := env.NewArrow(intTy, strTy)

	tr.Add(intTy, EntryID(1))
	tr.Add(strTy, EntryID(2))
	tr.Add(arrow, EntryID(3))

	if got := tr.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	cells := collect(tr, intTy, true)
	if len(cells) != 3 {
		t.Fatalf("exhaustive Candidates returned %d cells, want 3", len(cells))
	}
}

func TestFilteredCandidatesPrunesIncompatibleHeads(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	pairTy := env.NewTuple([]typeterm.Ty{intTy, intTy})
	tr.Add(intTy, EntryID(1))
	tr.Add(pairTy, EntryID(2))

	// The tuple-headed entry is pruned for a constructor-headed query.
	cells := collect(tr, intTy, false)
	if len(cells) != 1 {
		t.Fatalf("filtered Candidates returned %d cells, want 1", len(cells))
	}
	if !typeterm.Equal(cells[0].Type, intTy) {
		t.Fatalf("filtered Candidates returned the wrong cell")
	}
}

func TestFilteredCandidatesKeepsVarHeadedEntries(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	varTy := env.FreshVar()
	tr.Add(varTy, EntryID(1))

	cells := collect(tr, intTy, false)
	if len(cells) != 1 {
		t.Fatalf("filtered Candidates dropped a var-headed entry, got %d cells", len(cells))
	}
}

func TestFilteredCandidatesRespectsTailLength(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	strTy := env.NewConstr(mustPath(t, "string"), nil)
	boolTy := env.NewConstr(mustPath(t, "bool"), nil)

	shortArrow := env.NewArrow(intTy, strTy)
	longArrow := env.NewArrowN([]typeterm.Ty{intTy, strTy}, boolTy)

	tr.Add(shortArrow, EntryID(1))
	tr.Add(longArrow, EntryID(2))

	// A query with tail length 2 can only be satisfied by an entry whose
	// tail length is >= 2.
	cells := collect(tr, longArrow, false)
	found := false
	for _, c := range cells {
		if typeterm.Equal(c.Type, shortArrow) {
			found = true
		}
	}
	if found {
		t.Fatalf("filtered Candidates admitted an entry with too-short a tail")
	}
}

func TestDuplicateTypeSharesOneCell(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	intTy2 := env.NewConstr(mustPath(t, "int"), nil)

	tr.Add(intTy, EntryID(1))
	tr.Add(intTy2, EntryID(2))

	cells := collect(tr, intTy, true)
	if len(cells) != 1 {
		t.Fatalf("hash-consed duplicate types produced %d cells, want 1", len(cells))
	}
	if cells[0].Entries.GetCardinality() != 2 {
		t.Fatalf("cell holds %d entries, want 2", cells[0].Entries.GetCardinality())
	}
}

func TestAllVisitsEveryCell(t *testing.T) {
	env := typeterm.NewEnv()
	tr := New(feature.Default)

	intTy := env.NewConstr(mustPath(t, "int"), nil)
	strTy := env.NewConstr(mustPath(t, "string"), nil)
	tr.Add(intTy, EntryID(1))
	tr.Add(strTy, EntryID(2))

	count := 0
	for range tr.All() {
		count++
	}
	if count != 2 {
		t.Fatalf("All() visited %d cells, want 2", count)
	}
}
