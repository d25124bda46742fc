package fingerprint

import (
	"testing"

	"contentsift/internal/domain"
)

func TestExactDeterministic(t *testing.T) {
	rec := &domain.ContentRecord{
		ItemID:  "a1",
		URL:     "https://example.com/post",
		Title:   "Go 1.25 Released",
		Content: "The Go team has released Go 1.25 with improvements.",
	}

	first := Exact(rec)
	second := Exact(rec)
	if first != second {
		t.Fatalf("fingerprint not deterministic: %d != %d", first, second)
	}
}

func TestExactIgnoresCaseAndWhitespace(t *testing.T) {
	a := &domain.ContentRecord{
		URL:     "https://example.com/post",
		Title:   "Go 1.25  Released",
		Content: "The Go team has   released Go 1.25.",
	}
	b := &domain.ContentRecord{
		URL:     "HTTPS://EXAMPLE.COM/POST",
		Title:   "go 1.25 released",
		Content: "the go team has released go 1.25.",
	}

	if Exact(a) != Exact(b) {
		t.Fatal("fingerprints should match after normalization")
	}
}

func TestExactDiffersOnContent(t *testing.T) {
	a := &domain.ContentRecord{URL: "https://example.com/1", Title: "First", Content: "body one"}
	b := &domain.ContentRecord{URL: "https://example.com/2", Title: "Second", Content: "body two"}

	if Exact(a) == Exact(b) {
		t.Fatal("different records should not share a fingerprint")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Hello World", "hello world"},
		{"collapses whitespace", "a  b\t c", "a b c"},
		{"strips trailing punctuation", "read this!!!", "read this"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	sig := NewTextSignature("the quick brown fox jumps over the lazy dog")
	if got := sig.Similarity(sig); got != 1.0 {
		t.Fatalf("self similarity = %f, want 1.0", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := NewTextSignature("kubernetes cluster upgrade guide for production workloads")
	b := NewTextSignature("kubernetes cluster upgrade guide for staging workloads")

	ab := a.Similarity(b)
	ba := b.Similarity(a)
	if ab != ba {
		t.Fatalf("similarity not symmetric: %f != %f", ab, ba)
	}
	if ab <= 0 || ab >= 1 {
		t.Fatalf("near-identical texts should score in (0,1), got %f", ab)
	}
}

func TestSimilarityDisjointTexts(t *testing.T) {
	a := NewTextSignature("rust borrow checker lifetimes explained in depth")
	b := NewTextSignature("sourdough starter feeding schedule for beginners at home")

	if got := a.Similarity(b); got != 0 {
		t.Fatalf("disjoint texts similarity = %f, want 0", got)
	}
}

func TestSimilarityEmptySignatures(t *testing.T) {
	empty := NewTextSignature("")
	other := NewTextSignature("some actual content here for the signature")

	if got := empty.Similarity(empty); got != 1.0 {
		t.Fatalf("both empty = %f, want 1.0", got)
	}
	if got := empty.Similarity(other); got != 0 {
		t.Fatalf("one empty = %f, want 0", got)
	}
	if !empty.Empty() {
		t.Fatal("empty signature should report Empty")
	}
}

func TestShortTextStillComparable(t *testing.T) {
	a := NewTextSignature("hello world")
	b := NewTextSignature("hello world")

	if got := a.Similarity(b); got != 1.0 {
		t.Fatalf("identical short texts = %f, want 1.0", got)
	}
}
