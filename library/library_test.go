package library

import (
	"testing"

	"github.com/typodex/typodex/internal/path"
)

func TestID(t *testing.T) {
	if got := ID("", "1.0.0"); got != "" {
		t.Errorf("ID empty name = %q, want empty", got)
	}
	if got := ID("stdlib", ""); got != "stdlib" {
		t.Errorf("ID without version = %q, want stdlib", got)
	}
	if got := ID("stdlib", "1.0.0"); got != "stdlib@1.0.0" {
		t.Errorf("ID = %q, want stdlib@1.0.0", got)
	}
}

func TestInMemoryStore_RegisterDescribe(t *testing.T) {
	store := NewInMemoryStore()

	id, err := store.Register(Library{Name: "stdlib", Version: "1.0.0", Root: path.Parse("stdlib")})
	if err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if id != "stdlib@1.0.0" {
		t.Errorf("resolved id = %q, want stdlib@1.0.0", id)
	}

	got, err := store.Describe(id)
	if err != nil {
		t.Fatalf("Describe error = %v", err)
	}
	if got.Name != "stdlib" {
		t.Errorf("Name = %q, want stdlib", got.Name)
	}
}

func TestInMemoryStore_RegisterDuplicate(t *testing.T) {
	store := NewInMemoryStore()
	lib := Library{Name: "stdlib", Version: "1.0.0", Root: path.Parse("stdlib")}
	if _, err := store.Register(lib); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if _, err := store.Register(lib); err != ErrAlreadyExist {
		t.Fatalf("Register duplicate error = %v, want ErrAlreadyExist", err)
	}
}

func TestInMemoryStore_List(t *testing.T) {
	store := NewInMemoryStore()
	_, _ = store.Register(Library{Name: "beta", Root: path.Parse("beta")})
	_, _ = store.Register(Library{Name: "alpha", Root: path.Parse("alpha")})

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("List length = %d, want 2", len(list))
	}
	if list[0].Name != "alpha" {
		t.Errorf("sorted first library = %q, want alpha", list[0].Name)
	}
}

func TestInMemoryStore_DescribeNotFound(t *testing.T) {
	store := NewInMemoryStore()
	if _, err := store.Describe("missing"); err != ErrNotFound {
		t.Errorf("Describe error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_Owner(t *testing.T) {
	store := NewInMemoryStore()
	_, _ = store.Register(Library{Name: "stdlib", Root: path.Parse("stdlib")})
	_, _ = store.Register(Library{Name: "stdlib.collections", Root: path.Parse("stdlib.collections")})

	lib, ok := store.Owner(path.Parse("stdlib.collections.list.map"))
	if !ok {
		t.Fatalf("Owner() found no owner")
	}
	if lib.Name != "stdlib.collections" {
		t.Errorf("Owner() = %q, want the longest-prefix match stdlib.collections", lib.Name)
	}

	if _, ok := store.Owner(path.Parse("other.thing")); ok {
		t.Errorf("Owner() found an owner for an unregistered prefix")
	}
}
