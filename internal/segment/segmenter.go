// Package segment splits normalized contract text into ordered clauses.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
)

// FallbackHeading is used when a document has no recognizable headings
const FallbackHeading = "Entire Agreement"

// Segmenter splits text into clauses. Implementations must return at least
// one clause and number them C1..Cn in document order.
type Segmenter interface {
	Segment(text string) []model.Clause
}

// HeadingRule recognizes a clause heading line. Pattern is matched in
// multi-line mode, so anchors refer to line boundaries.
type HeadingRule struct {
	Name    string
	Pattern string
}

// DefaultHeadingRules recognize numeric outlines ("1 Scope", "2.1 Fees"),
// "Clause N ..." and "Section N ..." at line start. "3. Term" is not a
// heading under these rules; add DottedNumericRule for that style.
func DefaultHeadingRules() []HeadingRule {
	return []HeadingRule{
		{Name: "numeric", Pattern: `^\d+(?:\.\d+)*[ \t]+\S.*`},
		{Name: "clause", Pattern: `^clause[ \t]+\d+.+`},
		{Name: "section", Pattern: `^section[ \t]+\d+.+`},
	}
}

// DottedNumericRule matches numeric headings that end in a period ("3. Term")
var DottedNumericRule = HeadingRule{Name: "numeric_dotted", Pattern: `^\d+(?:\.\d+)*\.[ \t]+\S.*`}

// HeadingSegmenter cuts the text at every heading match
type HeadingSegmenter struct {
	rules   []HeadingRule
	pattern *regexp.Regexp
}

// NewHeadingSegmenter compiles the rules into one case-insensitive
// alternation. Matches are found left to right and never overlap.
func NewHeadingSegmenter(rules []HeadingRule) (*HeadingSegmenter, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("at least one heading rule is required")
	}

	alts := make([]string, 0, len(rules))
	for _, r := range rules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return nil, fmt.Errorf("compile heading rule %q: %w", r.Name, err)
		}
		alts = append(alts, "(?:"+r.Pattern+")")
	}

	pattern, err := regexp.Compile(`(?im)` + strings.Join(alts, "|"))
	if err != nil {
		return nil, fmt.Errorf("compile heading rules: %w", err)
	}

	return &HeadingSegmenter{rules: rules, pattern: pattern}, nil
}

// NewDefaultSegmenter returns a segmenter using DefaultHeadingRules
func NewDefaultSegmenter() *HeadingSegmenter {
	s, err := NewHeadingSegmenter(DefaultHeadingRules())
	if err != nil {
		panic(err) // built-in patterns are constant
	}
	return s
}

// Rules returns the configured heading rules
func (s *HeadingSegmenter) Rules() []HeadingRule {
	return s.rules
}

// Segment splits text into clauses. Text before the first heading is not
// part of any clause. Without headings the whole document is one clause.
func (s *HeadingSegmenter) Segment(text string) []model.Clause {
	matches := s.pattern.FindAllStringIndex(text, -1)

	clauses := make([]model.Clause, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		clauses = append(clauses, model.Clause{
			ID:      clauseID(i),
			Heading: strings.TrimSpace(text[m[0]:m[1]]),
			Text:    strings.TrimSpace(text[start:end]),
		})
	}

	if len(clauses) == 0 {
		clauses = append(clauses, model.Clause{
			ID:      clauseID(0),
			Heading: FallbackHeading,
			Text:    strings.TrimSpace(text),
		})
	}

	return clauses
}

func clauseID(i int) string {
	return fmt.Sprintf("C%d", i+1)
}
