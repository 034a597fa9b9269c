package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe     = regexp.MustCompile(`[ \t]{2,}`)
)

// Clean applies NFC normalization and whitespace cleanup to extracted text.
// Paragraph breaks survive as a single blank line.
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
