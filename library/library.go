// Package library tracks which harvested libraries own which qualified
// paths, so the index's package filter (spec.md §4.H's "?pkgs") can
// resolve a package name to the set of entries harvested from it.
package library

import (
	"errors"
	"sort"
	"sync"

	"github.com/typodex/typodex/internal/path"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound     = errors.New("library not found")
	ErrInvalidName  = errors.New("invalid library name")
	ErrAlreadyExist = errors.New("library already registered")
)

// Library describes one harvested library and the path prefix its entries
// were harvested under.
type Library struct {
	Name    string
	Version string
	Root    path.Path
}

// ID returns a stable identifier from name/version.
func ID(name, version string) string {
	if name == "" {
		return ""
	}
	if version == "" {
		return name
	}
	return name + "@" + version
}

// Store defines library discovery operations.
type Store interface {
	// Register records a library and returns its resolved ID.
	Register(lib Library) (string, error)
	// Describe returns a library by ID.
	Describe(id string) (Library, error)
	// List returns all registered libraries in stable order.
	List() []Library
	// Owner returns the library whose Root is the longest prefix of p, if
	// any. Ties are broken by registration order.
	Owner(p path.Path) (Library, bool)
}

// InMemoryStore stores libraries in memory, indexed both by ID and by root
// path prefix for Owner lookups.
type InMemoryStore struct {
	mu   sync.RWMutex
	libs map[string]Library
	// order preserves registration order so Owner ties resolve
	// deterministically instead of depending on map iteration order.
	order []string
}

// NewInMemoryStore creates an empty library store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{libs: make(map[string]Library)}
}

// Register records lib and returns its resolved ID.
func (s *InMemoryStore) Register(lib Library) (string, error) {
	if lib.Name == "" {
		return "", ErrInvalidName
	}
	id := ID(lib.Name, lib.Version)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.libs[id]; exists {
		return "", ErrAlreadyExist
	}
	s.libs[id] = lib
	s.order = append(s.order, id)
	return id, nil
}

// Describe returns a library by ID.
func (s *InMemoryStore) Describe(id string) (Library, error) {
	if id == "" {
		return Library{}, ErrInvalidName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	lib, ok := s.libs[id]
	if !ok {
		return Library{}, ErrNotFound
	}
	return lib, nil
}

// List returns every registered library, sorted by ID for a stable
// iteration order.
func (s *InMemoryStore) List() []Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.libs))
	for id := range s.libs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Library, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.libs[id])
	}
	return out
}

// Owner returns the registered library whose Root is the longest prefix of
// p. Registration order breaks ties between equally long prefixes.
func (s *InMemoryStore) Owner(p path.Path) (Library, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best    Library
		bestLen = -1
		found   bool
	)
	for _, id := range s.order {
		lib := s.libs[id]
		if !isPrefix(lib.Root, p) {
			continue
		}
		n := len(lib.Root.Segments())
		if n > bestLen {
			best, bestLen, found = lib, n, true
		}
	}
	return best, found
}

func isPrefix(prefix, p path.Path) bool {
	ps, fs := prefix.Segments(), p.Segments()
	if len(ps) > len(fs) {
		return false
	}
	for i, s := range ps {
		if fs[i] != s {
			return false
		}
	}
	return true
}
