package nlp

import (
	"context"
	"regexp"
	"sort"
)

const monthNames = `(?i:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)`

type entityPattern struct {
	label string
	re    *regexp.Regexp
}

// Patterns are tried in this order; it only matters for spans of equal start
// and length.
var entityPatterns = []entityPattern{
	{LabelOrg, regexp.MustCompile(`\b(?:[A-Z][A-Za-z0-9&'-]*\s+){1,5}(?:Private\s+Limited\b|Pvt\.?\s*Ltd\b\.?|Limited\b|Ltd\b\.?|LLP\b|LLC\b|Inc\b\.?|Corporation\b|Corp\b\.?)`)},
	{LabelPerson, regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Shri|Smt)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}`)},
	{LabelDate, regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `\.?,?\s+\d{4}\b`)},
	{LabelDate, regexp.MustCompile(`\b` + monthNames + `\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)},
	{LabelDate, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{LabelDate, regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)},
	{LabelMoney, regexp.MustCompile(`(?:US\$|USD|EUR|GBP|\$|€|£)\s?\d[\d,]*(?:\.\d+)?`)},
	{LabelMoney, regexp.MustCompile(`(?i)\b\d[\d,]*(?:\.\d+)?\s*(?:rupees|lakhs?|lacs?|crores?)\b`)},
}

// RuleParser is a regex-based Parser. It recognizes Indian and international
// company names, honorific-prefixed person names, common date formats and
// non-INR money amounts. Overlapping matches resolve leftmost-longest.
type RuleParser struct{}

// NewRuleParser creates a rule-based parser
func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

// Parse splits text into sentences and entities
func (p *RuleParser) Parse(ctx context.Context, text string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Document{
		Text:      text,
		Sentences: SplitSentences(text),
		Entities:  FindEntities(text),
	}, nil
}

// FindEntities returns non-overlapping entity spans in document order
func FindEntities(text string) []Entity {
	type candidate struct {
		Entity
		rank int
	}

	var cands []candidate
	for rank, p := range entityPatterns {
		for _, m := range p.re.FindAllStringIndex(text, -1) {
			cands = append(cands, candidate{
				Entity: Entity{Label: p.label, Text: text[m[0]:m[1]], Start: m[0], End: m[1]},
				rank:   rank,
			})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if la, lb := a.End-a.Start, b.End-b.Start; la != lb {
			return la > lb
		}
		return a.rank < b.rank
	})

	var out []Entity
	end := -1
	for _, c := range cands {
		if c.Start < end {
			continue
		}
		out = append(out, c.Entity)
		end = c.End
	}
	return out
}
