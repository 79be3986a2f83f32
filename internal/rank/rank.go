// Package rank orders unification results (spec.md component I): first by
// unifier specificity (fewer, simpler bindings first), then by canonical
// type order, giving every query a single deterministic result ordering.
package rank

import (
	"sort"

	"github.com/typodex/typodex/internal/subst"
	"github.com/typodex/typodex/internal/typeterm"
)

// Match pairs one matched entry's canonical type with the unifier that
// produced it. EntryID is left as an opaque comparable so callers can plug
// in whatever identity their entry records use.
type Match[EntryID comparable] struct {
	Entry EntryID
	Type  typeterm.Ty
	Subst subst.Subst
}

// Sort orders matches by unifier specificity (subst.Compare ascending),
// breaking ties by canonical type order (typeterm.Compare ascending), and
// finally by entry ID's insertion order to keep the sort stable and
// deterministic when both prior keys tie exactly.
func Sort[EntryID comparable](matches []Match[EntryID]) {
	sort.SliceStable(matches, func(i, j int) bool {
		if c := subst.Compare(matches[i].Subst, matches[j].Subst); c != 0 {
			return c < 0
		}
		return typeterm.Compare(matches[i].Type, matches[j].Type) < 0
	})
}
