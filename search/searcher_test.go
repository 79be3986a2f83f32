package search

import "testing"

func sampleDocs() []Doc {
	return []Doc{
		{Key: "stdlib.map", Path: "stdlib.map", Text: "map applies a function over a list"},
		{Key: "stdlib.filter", Path: "stdlib.filter", Text: "filter keeps elements matching a predicate"},
		{Key: "stdlib.fold", Path: "stdlib.fold", Text: "fold reduces a list to a single value"},
	}
}

func TestSearchMatchesByPath(t *testing.T) {
	s := NewBleveSearcher(Config{})
	matches, err := s.Search("filter", 10, sampleDocs())
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("Search(filter) returned no matches")
	}
	if matches[0].Key != "stdlib.filter" {
		t.Errorf("top match = %q, want stdlib.filter", matches[0].Key)
	}
}

func TestSearchEmptyQueryListsInOrder(t *testing.T) {
	s := NewBleveSearcher(Config{})
	matches, err := s.Search("", 2, sampleDocs())
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Search(\"\") returned %d matches, want 2", len(matches))
	}
	if matches[0].Key != "stdlib.filter" || matches[1].Key != "stdlib.fold" {
		t.Errorf("matches = %+v, want key-sorted stdlib.filter, stdlib.fold", matches)
	}
}

func TestSearchLimitZeroReturnsNothing(t *testing.T) {
	s := NewBleveSearcher(Config{})
	matches, err := s.Search("map", 0, sampleDocs())
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Search with limit 0 returned %d matches", len(matches))
	}
}

func TestSearchReusesIndexWhenDocsUnchanged(t *testing.T) {
	s := NewBleveSearcher(Config{})
	docs := sampleDocs()
	if _, err := s.Search("map", 10, docs); err != nil {
		t.Fatalf("first Search error = %v", err)
	}
	firstIdx := s.idx
	if _, err := s.Search("fold", 10, docs); err != nil {
		t.Fatalf("second Search error = %v", err)
	}
	if s.idx != firstIdx {
		t.Errorf("BleveSearcher rebuilt its index though the document set did not change")
	}
}

func TestSearchRebuildsWhenDocsChange(t *testing.T) {
	s := NewBleveSearcher(Config{})
	if _, err := s.Search("map", 10, sampleDocs()); err != nil {
		t.Fatalf("first Search error = %v", err)
	}
	firstIdx := s.idx

	more := append(sampleDocs(), Doc{Key: "stdlib.zip", Path: "stdlib.zip", Text: "zip pairs two lists"})
	if _, err := s.Search("zip", 10, more); err != nil {
		t.Fatalf("second Search error = %v", err)
	}
	if s.idx == firstIdx {
		t.Errorf("BleveSearcher did not rebuild after the document set changed")
	}
}
