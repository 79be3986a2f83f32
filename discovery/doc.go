// Package discovery combines type-directed search (index) with the
// lexical fallback channel (search, semantic) into one facade: search by
// type alone, by name/description alone, or by a weighted blend of both.
package discovery
