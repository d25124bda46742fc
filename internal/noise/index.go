package noise

import (
	"sort"
	"sync"

	"contentsift/internal/domain"
	"contentsift/internal/fingerprint"
)

// Index is the append-only history of fingerprints and signatures seen during
// the current process lifetime. It is constructed once by the caller and
// passed into the filter; restarting the process forgets history.
//
// Observe performs its read-before-write under a single lock, so concurrent
// callers cannot both miss a near-simultaneous duplicate.
type Index struct {
	mu         sync.Mutex
	exact      map[uint64][]string
	signatures []indexedSignature
}

type indexedSignature struct {
	itemID    string
	signature fingerprint.Signature
}

// NewIndex creates an empty duplicate-history index.
func NewIndex() *Index {
	return &Index{
		exact: make(map[uint64][]string),
	}
}

// Observe looks up prior records matching the given fingerprint and
// signature, then unconditionally indexes the new record, all atomically.
// Exact matches are returned in insertion order. Near matches are returned
// most-similar first; only entries at or above threshold are reported.
func (ix *Index) Observe(
	itemID string,
	fp uint64,
	sig fingerprint.Signature,
	threshold float64,
) (exact []string, near []domain.SimilarContent) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ids, ok := ix.exact[fp]; ok {
		exact = append(exact, ids...)
	}

	// Empty signatures (no text) match everything empty at 1.0; skip them so
	// a stream of blank records does not flag each other as near duplicates.
	if !sig.Empty() {
		for _, entry := range ix.signatures {
			s := sig.Similarity(entry.signature)
			if s >= threshold {
				near = append(near, domain.SimilarContent{ItemID: entry.itemID, Similarity: s})
			}
		}
		sort.SliceStable(near, func(i, j int) bool {
			return near[i].Similarity > near[j].Similarity
		})
	}

	ix.exact[fp] = append(ix.exact[fp], itemID)
	ix.signatures = append(ix.signatures, indexedSignature{itemID: itemID, signature: sig})

	return exact, near
}

// Size returns the number of records indexed so far.
func (ix *Index) Size() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.signatures)
}
