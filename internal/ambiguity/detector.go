// Package ambiguity flags clauses drafted with vague, hedging language.
package ambiguity

import (
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
)

// DefaultPhrases is the vague-language vocabulary
var DefaultPhrases = []string{
	"best efforts",
	"reasonable efforts",
	"as soon as practicable",
	"material breach",
	"commercially reasonable",
	"from time to time",
}

// Detector matches clause text against a fixed phrase vocabulary
type Detector struct {
	phrases []string
}

// NewDetector creates a detector for the given phrases; nil means DefaultPhrases
func NewDetector(phrases []string) *Detector {
	if phrases == nil {
		phrases = DefaultPhrases
	}
	lower := make([]string, len(phrases))
	for i, p := range phrases {
		lower[i] = strings.ToLower(p)
	}
	return &Detector{phrases: lower}
}

// IsAmbiguous reports whether text contains any vocabulary phrase
func (d *Detector) IsAmbiguous(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Matches returns the vocabulary phrases found in text, in vocabulary order
func (d *Detector) Matches(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			out = append(out, p)
		}
	}
	return out
}

// Annotate builds the annotation for one clause
func (d *Detector) Annotate(c model.Clause) model.AmbiguityAnnotation {
	phrases := d.Matches(c.Text)
	return model.AmbiguityAnnotation{
		ClauseID:  c.ID,
		Ambiguous: len(phrases) > 0,
		Phrases:   phrases,
	}
}

// AnnotateAll annotates clauses in order
func (d *Detector) AnnotateAll(clauses []model.Clause) []model.AmbiguityAnnotation {
	out := make([]model.AmbiguityAnnotation, len(clauses))
	for i, c := range clauses {
		out[i] = d.Annotate(c)
	}
	return out
}
