package extract

import (
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/nlp"
)

// Role cue phrases, checked in precedence order: prohibition, obligation, right.
// Prohibitions come first because they usually contain an obligation cue
// ("shall not").
var (
	ProhibitionCues = []string{"shall not", "must not", "is prohibited from", "no party shall"}
	ObligationCues  = []string{"shall", "must", "is obliged to", "is required to", "has to"}
	RightCues       = []string{"may", "is entitled to", "reserves the right to"}
)

// RoleClassifier tags sentences as obligations, rights or prohibitions
type RoleClassifier struct{}

// NewRoleClassifier creates a role classifier
func NewRoleClassifier() *RoleClassifier {
	return &RoleClassifier{}
}

// ClassifySentence returns the role of a single sentence
func (c *RoleClassifier) ClassifySentence(sentence string) model.Role {
	lower := strings.ToLower(sentence)
	switch {
	case containsAny(lower, ProhibitionCues):
		return model.RoleProhibition
	case containsAny(lower, ObligationCues):
		return model.RoleObligation
	case containsAny(lower, RightCues):
		return model.RoleRight
	default:
		return model.RoleNeutral
	}
}

// Classify tags every sentence of doc, dropping neutral ones
func (c *RoleClassifier) Classify(doc *nlp.Document) []model.RoleTaggedSentence {
	out := []model.RoleTaggedSentence{}
	if doc == nil {
		return out
	}
	for _, s := range doc.Sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if role := c.ClassifySentence(s); role != model.RoleNeutral {
			out = append(out, model.RoleTaggedSentence{Sentence: s, Role: role})
		}
	}
	return out
}

// CountRoles tallies tagged sentences per role
func CountRoles(tagged []model.RoleTaggedSentence) map[model.Role]int {
	counts := make(map[model.Role]int, 3)
	for _, t := range tagged {
		counts[t.Role]++
	}
	return counts
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
