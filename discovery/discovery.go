package discovery

import (
	"context"
	"fmt"

	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/typesyntax"
	"github.com/typodex/typodex/internal/typeterm"
	"github.com/typodex/typodex/search"
	"github.com/typodex/typodex/semantic"
)

// DefaultAlpha weights the type channel in SearchHybrid when the caller
// does not specify one: equal weighting, matching the teacher's
// HybridSearcher default.
const DefaultAlpha = 0.5

// Options configures a Discovery.
type Options struct {
	// Search tunes the lexical fallback channel.
	Search search.Config
}

// Discovery wraps a built index.Index with a lexical fallback channel over
// the same entries, letting callers search by type, by name, or by both.
type Discovery struct {
	ix       *index.Index
	strategy semantic.Strategy
	docs     []semantic.Document
}

// New builds a Discovery over ix. ix must already be built (Build/Insert
// calls finished); Discovery snapshots ix's entries once at construction.
func New(ix *index.Index, opts Options) *Discovery {
	searcher := search.NewBleveSearcher(opts.Search)
	docs := make([]semantic.Document, 0)
	for info := range ix.Iter() {
		docs = append(docs, semantic.Document{
			Key:  info.Path.String(),
			Path: info.Path.String(),
			Text: typesyntax.Render(ix.Env(), info.Type),
		})
	}
	return &Discovery{ix: ix, strategy: semantic.NewLexicalStrategy(searcher), docs: docs}
}

// SearchByType runs the type-unification channel alone (spec.md §4.H's
// find/find_with), wrapping results with a specificity-derived score.
func (d *Discovery) SearchByType(query typeterm.Ty, opts index.FindOptions, exhaustive bool) (Results, error) {
	find := d.ix.FindWith
	if exhaustive {
		find = d.ix.Find
	}
	seq, err := find(query, opts)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	var out Results
	for r := range seq {
		out = append(out, Result{
			Path:      r.Path,
			Type:      r.Type,
			Subst:     r.Subst,
			Score:     typeScore(r.Subst.Len()),
			ScoreType: ScoreTypeType,
		})
	}
	return out, nil
}

// typeScore turns a unifier's binding count into a score that decreases
// monotonically with specificity, so it composes with a lexical score in
// SearchHybrid without inverting sort order.
func typeScore(bindingCount int) float64 {
	return 1.0 / float64(1+bindingCount)
}

// SearchByName runs the lexical fallback channel alone. limit < 0 means
// unlimited.
func (d *Discovery) SearchByName(ctx context.Context, query string, limit int) (Results, error) {
	scores, err := d.strategy.Score(ctx, query, d.docs)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	out := make(Results, 0, len(scores))
	for key, score := range scores {
		out = append(out, Result{Path: path.Parse(key), Score: score, ScoreType: ScoreTypeLexical})
	}
	sortResults(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchHybrid blends the type channel and the lexical channel with
// alpha weighting the type channel (1-alpha weights the lexical one),
// mirroring the teacher's HybridSearcher weighting scheme. alpha <= 0
// defaults to DefaultAlpha.
func (d *Discovery) SearchHybrid(ctx context.Context, typeQuery typeterm.Ty, textQuery string, findOpts index.FindOptions, alpha float64) (Results, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	typeResults, err := d.SearchByType(typeQuery, findOpts, false)
	if err != nil {
		return nil, err
	}
	lexScores, err := d.strategy.Score(ctx, textQuery, d.docs)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	seen := make(map[string]bool, len(typeResults))
	out := make(Results, 0, len(typeResults)+len(lexScores))
	for _, r := range typeResults {
		key := r.Path.String()
		seen[key] = true
		r.Score = alpha*r.Score + (1-alpha)*lexScores[key]
		r.ScoreType = ScoreTypeHybrid
		out = append(out, r)
	}
	for key, score := range lexScores {
		if seen[key] {
			continue
		}
		out = append(out, Result{Path: path.Parse(key), Score: (1 - alpha) * score, ScoreType: ScoreTypeHybrid})
	}
	sortResults(out)
	return out, nil
}
