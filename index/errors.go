package index

import "errors"

// Sentinel errors for consistent error handling.
var (
	// ErrUnknownPackage is returned by Find/FindWith when a non-empty
	// package filter names no package known to the index (spec.md §4.H,
	// §7).
	ErrUnknownPackage = errors.New("index: unknown package")
	// ErrLoad wraps any I/O or decode failure surfaced by Load (spec.md
	// §7.1).
	ErrLoad = errors.New("index: load failed")
)
