package semantic

import (
	"context"
	"fmt"

	"github.com/typodex/typodex/search"
)

// Strategy scores a corpus of documents against a free-text query, keyed
// by Document.Key. Documents absent from the result score zero.
type Strategy interface {
	Score(ctx context.Context, query string, docs []Document) (map[string]float64, error)
}

// LexicalStrategy scores documents with a bleve-backed BleveSearcher. It
// implements Strategy.
type LexicalStrategy struct {
	searcher *search.BleveSearcher
}

// NewLexicalStrategy wraps searcher as a Strategy.
func NewLexicalStrategy(searcher *search.BleveSearcher) *LexicalStrategy {
	return &LexicalStrategy{searcher: searcher}
}

// Score implements Strategy.
func (l *LexicalStrategy) Score(ctx context.Context, query string, docs []Document) (map[string]float64, error) {
	if l.searcher == nil {
		return nil, ErrInvalidStrategy
	}
	sdocs := make([]search.Doc, len(docs))
	for i, d := range docs {
		nd := d.Normalized()
		sdocs[i] = search.Doc{Key: nd.Key, Path: nd.Path, Text: nd.Text}
	}
	matches, err := l.searcher.Search(query, len(sdocs), sdocs)
	if err != nil {
		return nil, fmt.Errorf("semantic: %w", err)
	}
	out := make(map[string]float64, len(matches))
	for _, m := range matches {
		out[m.Key] = m.Score
	}
	return out, nil
}
