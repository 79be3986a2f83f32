package sigdoc

import "testing"

func TestRegisterAndDescribeSummary(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	if err := store.RegisterDoc("stdlib.list.map", Entry{
		Signature: "('a -> 'b) -> 'a list -> 'b list",
		Text:      "Applies a function to every element of a list.",
		Examples:  []string{"int -> int", "string -> int"},
	}); err != nil {
		t.Fatalf("RegisterDoc error = %v", err)
	}

	doc, err := store.DescribeEntry("stdlib.list.map", DetailSummary)
	if err != nil {
		t.Fatalf("DescribeEntry error = %v", err)
	}
	if doc.Signature == "" {
		t.Errorf("Signature is empty")
	}
	if doc.Text != "" || doc.Examples != nil {
		t.Errorf("DetailSummary leaked full-tier fields: %+v", doc)
	}
}

func TestDescribeFullIncludesTextAndExamples(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	_ = store.RegisterDoc("k", Entry{
		Signature: "int -> int",
		Text:      "doubles its input",
		Examples:  []string{"int -> int"},
	})

	doc, err := store.DescribeEntry("k", DetailFull)
	if err != nil {
		t.Fatalf("DescribeEntry error = %v", err)
	}
	if doc.Text == "" {
		t.Errorf("DetailFull did not include Text")
	}
	if len(doc.Examples) != 1 {
		t.Errorf("Examples = %v, want 1 entry", doc.Examples)
	}
}

func TestMaxExamplesCap(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{MaxExamples: 2})
	_ = store.RegisterDoc("k", Entry{
		Signature: "int -> int",
		Examples:  []string{"a", "b", "c", "d"},
	})

	doc, err := store.DescribeEntry("k", DetailFull)
	if err != nil {
		t.Fatalf("DescribeEntry error = %v", err)
	}
	if len(doc.Examples) != 2 {
		t.Fatalf("Examples length = %d, want 2 (capped)", len(doc.Examples))
	}
}

func TestAddExample(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	_ = store.RegisterDoc("k", Entry{Signature: "int -> int"})
	if err := store.AddExample("k", "int -> int"); err != nil {
		t.Fatalf("AddExample error = %v", err)
	}
	doc, _ := store.DescribeEntry("k", DetailFull)
	if len(doc.Examples) != 1 {
		t.Fatalf("Examples length = %d, want 1", len(doc.Examples))
	}
	if err := store.AddExample("missing", "x"); err != ErrNotFound {
		t.Errorf("AddExample on missing key error = %v, want ErrNotFound", err)
	}
}

func TestDescribeEntryErrors(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	if _, err := store.DescribeEntry("missing", DetailSummary); err != ErrNotFound {
		t.Errorf("DescribeEntry missing key error = %v, want ErrNotFound", err)
	}
	_ = store.RegisterDoc("k", Entry{Signature: "int"})
	if _, err := store.DescribeEntry("k", DetailLevel(99)); err != ErrInvalidDetail {
		t.Errorf("DescribeEntry bad level error = %v, want ErrInvalidDetail", err)
	}
}

func TestRegisterDocRejectsEmptyKey(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	if err := store.RegisterDoc("", Entry{}); err != ErrInvalidKey {
		t.Errorf("RegisterDoc empty key error = %v, want ErrInvalidKey", err)
	}
}

func TestListKeysSorted(t *testing.T) {
	store := NewInMemoryStore(StoreOptions{})
	_ = store.RegisterDoc("b", Entry{Signature: "int"})
	_ = store.RegisterDoc("a", Entry{Signature: "int"})

	keys := store.ListKeys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("ListKeys() = %v, want sorted [a b]", keys)
	}
}
