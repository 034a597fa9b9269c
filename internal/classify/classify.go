// Package classify guesses the contract type from keyword counts, with an
// optional model-backed refinement for documents the keywords cannot place.
package classify

import (
	"context"
	"strings"

	"github.com/ppiankov/clauseguard/internal/logging"
)

// ContractType identifies a contract family; it also selects the template file
type ContractType string

const (
	Employment  ContractType = "employment"
	Vendor      ContractType = "vendor"
	Lease       ContractType = "lease"
	Partnership ContractType = "partnership"
	Service     ContractType = "service"
	Other       ContractType = "other"
)

type keywordSet struct {
	typ      ContractType
	keywords []string
}

// Declaration order breaks ties
var keywordSets = []keywordSet{
	{Employment, []string{"employee", "employer", "salary", "employment"}},
	{Vendor, []string{"supplier", "purchase order", "vendor", "supply"}},
	{Lease, []string{"lease", "tenant", "landlord", "rent"}},
	{Partnership, []string{"partners", "partnership", "profit sharing"}},
	{Service, []string{"services", "service provider", "sla", "performance"}},
}

// Types returns every known contract type, Other last
func Types() []ContractType {
	out := make([]ContractType, 0, len(keywordSets)+1)
	for _, ks := range keywordSets {
		out = append(out, ks.typ)
	}
	return append(out, Other)
}

// Parse maps a label to a known type, ignoring case and surrounding
// punctuation. Unknown labels give Other and false.
func Parse(label string) (ContractType, bool) {
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), `."'`))
	for _, t := range Types() {
		if string(t) == label {
			return t, true
		}
	}
	return Other, false
}

// RuleBased scores each type by how many of its keywords occur in text.
// The first type with the highest positive score wins; no hits gives Other.
func RuleBased(text string) ContractType {
	lower := strings.ToLower(text)
	best, bestScore := Other, 0
	for _, ks := range keywordSets {
		score := 0
		for _, kw := range ks.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = ks.typ, score
		}
	}
	return best
}

// Refiner labels documents the keyword rules could not place
type Refiner interface {
	ClassifyContractType(ctx context.Context, text string) (string, error)
}

// Classifier combines the keyword rules with an optional Refiner
type Classifier struct {
	refiner Refiner
	log     logging.Logger
}

// NewClassifier creates a classifier; refiner may be nil
func NewClassifier(refiner Refiner, log logging.Logger) *Classifier {
	return &Classifier{refiner: refiner, log: logging.OrNop(log).Named("classify")}
}

// Classify returns the keyword result, consulting the refiner only when the
// keywords give Other. Refiner failures and unknown labels give Other.
func (c *Classifier) Classify(ctx context.Context, text string) ContractType {
	t := RuleBased(text)
	if t != Other || c.refiner == nil {
		return t
	}

	label, err := c.refiner.ClassifyContractType(ctx, text)
	if err != nil {
		c.log.Warn("contract type refinement failed", logging.Err(err))
		return Other
	}
	refined, ok := Parse(label)
	if !ok {
		c.log.Debug("refiner returned unknown contract type", logging.String("label", label))
	}
	return refined
}
