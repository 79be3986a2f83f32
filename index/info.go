// Package index provides the index facade (spec.md component H): building
// a searchable index of harvested entries, running type-directed lookups
// against it, and persisting it to disk.
package index

import (
	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/subst"
	"github.com/typodex/typodex/internal/typeterm"
)

// Info is one harvested entry: a qualified path and the canonical type it
// was harvested with.
type Info struct {
	Path path.Path
	Type typeterm.Ty
}

// Result is one matched entry returned from Find/FindWith: the entry that
// matched, the canonical type its cell was keyed on, and the unifier that
// witnesses the match.
type Result struct {
	Path  path.Path
	Type  typeterm.Ty
	Subst subst.Subst
}
