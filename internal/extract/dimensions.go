// Package extract pulls structured facts and sentence roles out of a parsed
// contract document.
package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/nlp"
)

// Evidence strings appended for presence-only dimensions
const (
	EvidenceGoverningLaw    = "India"
	EvidenceIPRights        = "IP clause present"
	EvidenceConfidentiality = "Confidentiality/NDA clause present"
)

// JurisdictionClues are matched case-insensitively; every clue present is
// recorded once, in this order
var JurisdictionClues = []string{
	"courts at",
	"jurisdiction",
	"governed by",
	"arbitration seated in",
}

var (
	moneyRe   = regexp.MustCompile(`(?i)(?:INR|Rs\.?|₹)\s?\d[\d,]*(?:\.\d+)?`)
	ipTokenRe = regexp.MustCompile(`\bip\b`)
)

// DimensionExtractor builds a DimensionBag from a parsed document. Lists are
// bags of evidence: duplicates are kept.
type DimensionExtractor struct{}

// NewDimensionExtractor creates a dimension extractor
func NewDimensionExtractor() *DimensionExtractor {
	return &DimensionExtractor{}
}

// Extract collects entity- and keyword-based evidence
func (e *DimensionExtractor) Extract(doc *nlp.Document) model.DimensionBag {
	bag := model.NewDimensionBag()
	if doc == nil {
		return bag
	}

	for _, ent := range doc.Entities {
		switch ent.Label {
		case nlp.LabelOrg, nlp.LabelPerson:
			bag.Parties = append(bag.Parties, ent.Text)
		case nlp.LabelDate:
			bag.Dates = append(bag.Dates, ent.Text)
		case nlp.LabelMoney:
			bag.Amounts = append(bag.Amounts, ent.Text)
		}
	}

	// Currency amounts are scanned independently of entity recognition
	bag.Amounts = append(bag.Amounts, moneyRe.FindAllString(doc.Text, -1)...)

	lower := strings.ToLower(doc.Text)

	for _, clue := range JurisdictionClues {
		if strings.Contains(lower, clue) {
			bag.Jurisdiction = append(bag.Jurisdiction, clue)
		}
	}

	if strings.Contains(lower, "laws of india") || strings.Contains(lower, "laws of the republic of india") {
		bag.GoverningLaw = append(bag.GoverningLaw, EvidenceGoverningLaw)
	}

	if strings.Contains(lower, "intellectual property") || ipTokenRe.MatchString(lower) {
		bag.IPRights = append(bag.IPRights, EvidenceIPRights)
	}

	if strings.Contains(lower, "confidential") || strings.Contains(lower, "non-disclosure") {
		bag.Confidentiality = append(bag.Confidentiality, EvidenceConfidentiality)
	}

	return bag
}
