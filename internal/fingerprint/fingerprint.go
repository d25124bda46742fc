// Package fingerprint computes exact and near-duplicate representations of
// content records. All functions are pure: they depend only on the record's
// text fields and keep no state.
package fingerprint

import (
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"contentsift/internal/domain"
)

// shingleSize is the word n-gram width used for near-duplicate signatures.
const shingleSize = 3

// Exact returns a deterministic 64-bit digest over the record's normalized
// (url, title, content) triple. Two records with identical normalized triples
// always hash equal; any difference in the normalized input changes the hash
// with overwhelming probability.
func Exact(rec *domain.ContentRecord) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(Normalize(rec.URL))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(Normalize(rec.Title))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(Normalize(rec.Content))
	return h.Sum64()
}

// Normalize lowercases, collapses runs of whitespace to single spaces, and
// strips trailing punctuation.
func Normalize(s string) string {
	s = strings.ToLower(s)
	fields := strings.Fields(s)
	s = strings.Join(fields, " ")
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r)
	})
}

// Signature is a shingled token-set representation supporting fuzzy
// similarity comparison between two texts.
type Signature struct {
	shingles map[uint64]struct{}
}

// NewSignature builds the near-duplicate signature for a record from its
// title and content.
func NewSignature(rec *domain.ContentRecord) Signature {
	return NewTextSignature(rec.Title + " " + rec.Content)
}

// NewTextSignature builds a signature from arbitrary text. Texts shorter than
// the shingle width fall back to a single whole-text shingle so short strings
// still compare meaningfully.
func NewTextSignature(text string) Signature {
	words := tokenize(text)
	shingles := make(map[uint64]struct{})

	if len(words) == 0 {
		return Signature{shingles: shingles}
	}

	if len(words) < shingleSize {
		shingles[hashShingle(words)] = struct{}{}
		return Signature{shingles: shingles}
	}

	for i := 0; i+shingleSize <= len(words); i++ {
		shingles[hashShingle(words[i:i+shingleSize])] = struct{}{}
	}
	return Signature{shingles: shingles}
}

// Empty reports whether the signature carries no shingles (empty source text).
func (s Signature) Empty() bool {
	return len(s.shingles) == 0
}

// Similarity returns the Jaccard overlap of two signatures in [0,1]. It is
// symmetric, and the similarity of a signature with itself is exactly 1.0
// (two empty signatures also compare as 1.0).
func (s Signature) Similarity(o Signature) float64 {
	if len(s.shingles) == 0 && len(o.shingles) == 0 {
		return 1.0
	}
	if len(s.shingles) == 0 || len(o.shingles) == 0 {
		return 0.0
	}

	small, large := s.shingles, o.shingles
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for sh := range small {
		if _, ok := large[sh]; ok {
			intersection++
		}
	}

	union := len(s.shingles) + len(o.shingles) - intersection
	return float64(intersection) / float64(union)
}

// tokenize lowercases and splits text into alphanumeric words.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hashShingle(words []string) uint64 {
	h := xxhash.New()
	for i, w := range words {
		if i > 0 {
			_, _ = h.WriteString(" ")
		}
		_, _ = h.WriteString(w)
	}
	return h.Sum64()
}
