package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// computeFingerprint generates a stable hash of the document slice, keyed
// so that unrelated field reordering never changes the result. It changes
// whenever a document's content changes, letting BleveSearcher skip a
// rebuild when the underlying entry set is unchanged.
func computeFingerprint(docs []Doc) string {
	h := sha256.New()
	sorted := slices.Clone(docs)
	slices.SortFunc(sorted, func(a, b Doc) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	for _, doc := range sorted {
		h.Write([]byte(doc.Key))
		h.Write([]byte{0})
		h.Write([]byte(doc.Path))
		h.Write([]byte{0})
		h.Write([]byte(doc.Text))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
