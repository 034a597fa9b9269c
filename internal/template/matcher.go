package template

import (
	"context"
	"strings"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/nlp"
)

// Matcher picks the reference template most similar to a clause
type Matcher struct {
	store *Store
	sim   nlp.Similarity
	log   logging.Logger
}

// NewMatcher creates a matcher over store using sim for scoring
func NewMatcher(store *Store, sim nlp.Similarity, log logging.Logger) *Matcher {
	return &Matcher{
		store: store,
		sim:   sim,
		log:   logging.OrNop(log).Named("matcher"),
	}
}

// BestMatch returns the template with the strictly greatest similarity to
// clauseText. Ties keep the earlier template. Blank text, an empty template
// set, or no positive score give the zero TemplateMatch. A template whose
// similarity fails is skipped.
func (m *Matcher) BestMatch(ctx context.Context, clauseText, contractType string) model.TemplateMatch {
	var best model.TemplateMatch
	if strings.TrimSpace(clauseText) == "" {
		return best
	}

	for _, tmpl := range m.store.Load(contractType) {
		if tmpl.Text == "" {
			continue
		}
		score, err := m.sim.Similarity(ctx, clauseText, tmpl.Text)
		if err != nil {
			m.log.Debug("similarity failed, skipping template",
				logging.String("template", tmpl.Name), logging.Err(err))
			continue
		}
		if score = clamp(score); score > best.Similarity {
			best = model.TemplateMatch{TemplateName: tmpl.Name, Similarity: score}
		}
	}
	return best
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
