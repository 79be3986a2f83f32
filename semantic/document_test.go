package semantic

import "testing"

func TestNormalizedLowercases(t *testing.T) {
	d := Document{Key: "K", Path: "Stdlib.Map", Text: "Applies a Function"}
	n := d.Normalized()
	if n.Path != "stdlib.map" || n.Text != "applies a function" {
		t.Errorf("Normalized() = %+v", n)
	}
	if n.Key != "K" {
		t.Errorf("Normalized() must not touch Key, got %q", n.Key)
	}
}

func TestFilterByPathPrefix(t *testing.T) {
	docs := []Document{
		{Key: "a", Path: "stdlib.map"},
		{Key: "b", Path: "stdlib.filter"},
		{Key: "c", Path: "extras.zip"},
	}
	got := FilterByPathPrefix(docs, "stdlib.")
	if len(got) != 2 {
		t.Fatalf("FilterByPathPrefix returned %d docs, want 2", len(got))
	}
}
