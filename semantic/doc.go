// Package semantic normalizes harvested entries into free-text documents
// and defines the scoring interface the discovery package blends with
// type-unification rank to answer name/description queries.
//
// [Strategy] is the pluggable piece: [LexicalStrategy] scores a corpus with
// the bleve-backed search package. A future embedding-based strategy could
// implement the same interface without discovery changing.
package semantic
