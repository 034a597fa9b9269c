package nlp

import (
	"context"
	"math"
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "such": true, "that": true,
	"the": true, "this": true, "to": true, "with": true, "any": true, "its": true,
}

// BagOfWords scores texts by cosine similarity of their token counts,
// ignoring case and common stop words. It never fails.
type BagOfWords struct{}

// NewBagOfWords creates a bag-of-words similarity
func NewBagOfWords() *BagOfWords {
	return &BagOfWords{}
}

func (b *BagOfWords) Similarity(ctx context.Context, a, c string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return cosineCounts(termCounts(a), termCounts(c)), nil
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[tok] {
			counts[tok]++
		}
	}
	return counts
}

func cosineCounts(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, na, nb float64
	for k, v := range a {
		na += v * v
		dot += v * b[k]
	}
	for _, v := range b {
		nb += v * v
	}
	return clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Cosine returns the cosine similarity of two equal-length vectors, or 0
// when either is empty, zero or the lengths differ
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
