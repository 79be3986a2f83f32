package discovery

import (
	"sort"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/subst"
	"github.com/typodex/typodex/internal/typeterm"
)

// ScoreType indicates which channel produced a Result's Score.
type ScoreType string

const (
	// ScoreType is the type-unification channel; Score is monotonic in
	// unifier specificity (fewer bindings scores higher) but not
	// comparable in absolute terms across different queries.
	ScoreTypeType ScoreType = "type"
	// ScoreTypeLexical is the bleve-backed name/description channel.
	ScoreTypeLexical ScoreType = "lexical"
	// ScoreTypeHybrid is an alpha-weighted blend of both channels.
	ScoreTypeHybrid ScoreType = "hybrid"
)

// Result is one unified search hit.
type Result struct {
	Path      path.Path
	Type      typeterm.Ty // zero value for pure-lexical hits with no type on hand
	Subst     subst.Subst
	Score     float64
	ScoreType ScoreType
}

// Results is a slice of Result with helper methods.
type Results []Result

// Paths returns just the paths, in order.
func (r Results) Paths() []string {
	out := make([]string, len(r))
	for i, res := range r {
		out[i] = res.Path.String()
	}
	return out
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var out Results
	for _, res := range r {
		if res.Score >= minScore {
			out = append(out, res)
		}
	}
	return out
}

func sortResults(r Results) {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			return r[i].Score > r[j].Score
		}
		return r[i].Path.String() < r[j].Path.String()
	})
}
