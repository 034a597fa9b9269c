// Package nlp defines the narrow language capabilities the analysis core
// depends on (document parsing and text similarity) together with the
// implementations clauseguard ships. The core only sees the interfaces.
package nlp

import "context"

// Entity labels the core relies on
const (
	LabelOrg    = "ORG"
	LabelPerson = "PERSON"
	LabelDate   = "DATE"
	LabelMoney  = "MONEY"
)

// Entity is a labeled span of the document text. Start and End are byte
// offsets into Document.Text.
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Document is a parsed contract: full text, sentences in order, and entities
// in order of appearance
type Document struct {
	Text      string
	Sentences []string
	Entities  []Entity
}

// EntitiesWithLabel returns entity texts carrying any of the labels, in order
func (d *Document) EntitiesWithLabel(labels ...string) []string {
	var out []string
	for _, e := range d.Entities {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e.Text)
				break
			}
		}
	}
	return out
}

// Parser produces a Document from normalized text. It is the single
// latency-significant call per document, so it honors ctx.
type Parser interface {
	Parse(ctx context.Context, text string) (*Document, error)
}

// Similarity scores two texts in [0,1]. Calls may fail independently.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}
