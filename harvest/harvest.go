package harvest

import (
	"fmt"

	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/typesyntax"
	"github.com/typodex/typodex/internal/typeterm"
)

// Entry is one harvested (qualified path, external type) pair, with Type
// given in the CLI's surface type syntax.
type Entry struct {
	Path string
	Type string
}

// Harvester is a finite Go 1.23 iterator over harvested entries. It stops
// early if yield returns false.
type Harvester func(yield func(Entry) bool)

// Build parses every entry a Harvester yields into env and inserts it into
// a fresh index.Index. It stops and returns an error on the first entry
// whose Type fails to parse.
func Build(env *typeterm.Env, opts index.Options, h Harvester) (*index.Index, error) {
	ix := index.New(env, opts)
	var parseErr error
	h(func(e Entry) bool {
		ty, err := typesyntax.Parse(env, e.Type)
		if err != nil {
			parseErr = fmt.Errorf("harvest: %s: %w", e.Path, err)
			return false
		}
		ix.Insert(index.Info{Path: path.Parse(e.Path), Type: ty})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return ix, nil
}
