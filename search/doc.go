// Package search provides a bleve-backed lexical searcher used as a
// fallback when a caller cannot state a type precisely but remembers a
// name or a fragment of documentation.
//
// It exists to keep index small and dependency-light: the type-directed
// core never imports bleve, only this package does.
//
// The primary type is [BleveSearcher]. It is safe for concurrent use and
// caches its underlying bleve index against a fingerprint of the document
// set, only rebuilding when that fingerprint changes.
package search
