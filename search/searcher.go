package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Doc is one document offered up for lexical search: a unique key, the
// qualified path it names, and free text (rendered signature plus any
// harvested doc comment) to match against.
type Doc struct {
	Key  string
	Path string
	Text string
}

// Config tunes field boosts and safety limits for a BleveSearcher.
type Config struct {
	// PathBoost weights matches against Doc.Path. Default 3.
	PathBoost float64
	// TextBoost weights matches against Doc.Text. Default 1.
	TextBoost float64
	// MaxDocs caps how many documents are indexed; 0 means unlimited.
	MaxDocs int
	// MaxDocTextLen truncates Doc.Text before indexing; 0 means unlimited.
	MaxDocTextLen int
}

func (c Config) resolve() Config {
	if c.PathBoost == 0 {
		c.PathBoost = 3
	}
	if c.TextBoost == 0 {
		c.TextBoost = 1
	}
	return c
}

// Match is one scored hit.
type Match struct {
	Key   string
	Score float64
}

// BleveSearcher performs lexical search over a document set, rebuilding
// its bleve index only when the set's fingerprint changes. Zero value is
// not usable; construct with NewBleveSearcher.
type BleveSearcher struct {
	cfg Config

	mu          sync.RWMutex
	idx         bleve.Index
	fingerprint string
}

// NewBleveSearcher constructs a searcher with the given configuration.
func NewBleveSearcher(cfg Config) *BleveSearcher {
	return &BleveSearcher{cfg: cfg.resolve()}
}

// Search ranks docs against query, returning up to limit matches sorted by
// score descending, then key ascending for determinism. An empty query
// returns the first limit documents in key order, with zero scores.
func (s *BleveSearcher) Search(query string, limit int, docs []Doc) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := s.ensureIndex(docs); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if query == "" {
		return s.firstN(docs, limit), nil
	}

	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()

	pathQuery := bleve.NewMatchQuery(query)
	pathQuery.SetField("path")
	pathQuery.SetBoost(s.cfg.PathBoost)

	textQuery := bleve.NewMatchQuery(query)
	textQuery.SetField("text")
	textQuery.SetBoost(s.cfg.TextBoost)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(pathQuery, textQuery))
	req.Size = limit
	req.SortBy([]string{"-_score", "_id"})

	result, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	matches := make([]Match, 0, len(result.Hits))
	for _, hit := range result.Hits {
		matches = append(matches, Match{Key: hit.ID, Score: hit.Score})
	}
	return matches, nil
}

func (s *BleveSearcher) firstN(docs []Doc, limit int) []Match {
	sorted := make([]Doc, len(docs))
	copy(sorted, docs)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Key < sorted[i].Key {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]Match, len(sorted))
	for i, d := range sorted {
		out[i] = Match{Key: d.Key}
	}
	return out
}

func (s *BleveSearcher) ensureIndex(docs []Doc) error {
	trimmed := docs
	if s.cfg.MaxDocs > 0 && len(trimmed) > s.cfg.MaxDocs {
		trimmed = trimmed[:s.cfg.MaxDocs]
	}
	fp := computeFingerprint(trimmed)

	s.mu.RLock()
	same := s.idx != nil && s.fingerprint == fp
	s.mu.RUnlock()
	if same {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil && s.fingerprint == fp {
		return nil
	}
	if s.idx != nil {
		_ = s.idx.Close()
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return err
	}
	for _, d := range trimmed {
		text := d.Text
		if s.cfg.MaxDocTextLen > 0 && len(text) > s.cfg.MaxDocTextLen {
			text = text[:s.cfg.MaxDocTextLen]
		}
		// The analyzer keeps a dotted path as one token, so the path is
		// also indexed with its segments split apart: a query for one
		// segment ("map") then matches "stdlib.list.map".
		pathText := d.Path + " " + strings.ReplaceAll(d.Path, ".", " ")
		if err := idx.Index(d.Key, map[string]string{"path": pathText, "text": text}); err != nil {
			_ = idx.Close()
			return err
		}
	}

	s.idx = idx
	s.fingerprint = fp
	return nil
}
