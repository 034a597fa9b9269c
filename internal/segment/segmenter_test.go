package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `SERVICE AGREEMENT
This agreement is made between Acme Pvt. Ltd. and Mr. Ravi Kumar.

1 Scope of Services
The Service Provider shall deliver monthly reports.

1.1 Reporting
Reports are due by the 5th of every month.

Clause 2 Fees
The Client shall pay INR 50,000 per month.

SECTION 3 Termination
The Client may terminate this agreement with 30 days notice.
`

func TestSegment_HeadingsAndSpans(t *testing.T) {
	clauses := NewDefaultSegmenter().Segment(sampleContract)
	require.Len(t, clauses, 4)

	assert.Equal(t, "1 Scope of Services", clauses[0].Heading)
	assert.Equal(t, "1.1 Reporting", clauses[1].Heading)
	assert.Equal(t, "Clause 2 Fees", clauses[2].Heading)
	assert.Equal(t, "SECTION 3 Termination", clauses[3].Heading)

	assert.Equal(t, "1 Scope of Services\nThe Service Provider shall deliver monthly reports.", clauses[0].Text)
	assert.Equal(t, "SECTION 3 Termination\nThe Client may terminate this agreement with 30 days notice.", clauses[3].Text)

	for _, c := range clauses {
		assert.NotContains(t, c.Text, "This agreement is made between", "preamble must not be part of a clause")
	}
}

func TestSegment_IDsSequential(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "%d Heading %d\nBody %d.\n\n", i, i, i)
	}

	clauses := NewDefaultSegmenter().Segment(b.String())
	require.Len(t, clauses, 12)
	for i, c := range clauses {
		assert.Equal(t, fmt.Sprintf("C%d", i+1), c.ID)
	}
}

func TestSegment_NoHeadingsFallsBack(t *testing.T) {
	text := "  The parties agree to cooperate in good faith.\nNothing else is agreed.  "
	clauses := NewDefaultSegmenter().Segment(text)

	require.Len(t, clauses, 1)
	assert.Equal(t, "C1", clauses[0].ID)
	assert.Equal(t, FallbackHeading, clauses[0].Heading)
	assert.Equal(t, "The parties agree to cooperate in good faith.\nNothing else is agreed.", clauses[0].Text)
}

func TestSegment_AlwaysAtLeastOneClause(t *testing.T) {
	inputs := []string{"x", "clause", "12", "Section A", "   \n\n  text"}
	for _, in := range inputs {
		clauses := NewDefaultSegmenter().Segment(in)
		assert.NotEmpty(t, clauses, "input %q", in)
		assert.Equal(t, "C1", clauses[0].ID)
	}
}

func TestSegment_NumberedWithTrailingDot(t *testing.T) {
	text := "1. Definitions\nTerms used here.\n2. Term\nThree years."

	clauses := NewDefaultSegmenter().Segment(text)
	require.Len(t, clauses, 1)
	assert.Equal(t, FallbackHeading, clauses[0].Heading)
	assert.Equal(t, text, clauses[0].Text)

	s, err := NewHeadingSegmenter(append(DefaultHeadingRules(), DottedNumericRule))
	require.NoError(t, err)
	clauses = s.Segment(text)
	require.Len(t, clauses, 2)
	assert.Equal(t, "1. Definitions", clauses[0].Heading)
	assert.Equal(t, "2. Term", clauses[1].Heading)
	assert.Equal(t, "2.1 Renewal", s.Segment("2.1 Renewal\nAnnual.")[0].Heading)
}

func TestSegment_HeadingMustStartLine(t *testing.T) {
	text := "1 Payment\nAs described in section 4 below, fees apply.\n"
	clauses := NewDefaultSegmenter().Segment(text)

	require.Len(t, clauses, 1)
	assert.Equal(t, "1 Payment", clauses[0].Heading)
}

func TestSegment_CustomRules(t *testing.T) {
	s, err := NewHeadingSegmenter([]HeadingRule{
		{Name: "article", Pattern: `^article\s+[ivxlc]+\b.*`},
	})
	require.NoError(t, err)

	text := "Article I Parties\nA and B.\nArticle II Term\nOne year.\n1 Not a heading here"
	clauses := s.Segment(text)

	require.Len(t, clauses, 2)
	assert.Equal(t, "Article I Parties", clauses[0].Heading)
	assert.Equal(t, "Article II Term", clauses[1].Heading)
	assert.Contains(t, clauses[1].Text, "1 Not a heading here")
	assert.Len(t, s.Rules(), 1)
}

func TestNewHeadingSegmenter_Errors(t *testing.T) {
	_, err := NewHeadingSegmenter(nil)
	assert.Error(t, err)

	_, err = NewHeadingSegmenter([]HeadingRule{{Name: "bad", Pattern: `^(unclosed`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestSegment_Idempotent(t *testing.T) {
	s := NewDefaultSegmenter()
	assert.Equal(t, s.Segment(sampleContract), s.Segment(sampleContract))
}
