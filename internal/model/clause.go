package model

// Clause is a heading-delimited span of contract text, the unit of analysis.
// Clauses are immutable once produced by a segmenter.
type Clause struct {
	ID         string   `json:"id"`                   // C1, C2, ... in document order
	Heading    string   `json:"heading"`              // Matched heading line
	Text       string   `json:"text"`                 // Full clause span, trimmed
	Subclauses []Clause `json:"subclauses,omitempty"` // Not populated beyond depth 1
}

// Role classifies a sentence as imposing a duty, granting a right, or forbidding an act
type Role string

const (
	RoleObligation  Role = "obligation"
	RoleRight       Role = "right"
	RoleProhibition Role = "prohibition"
	RoleNeutral     Role = "neutral" // Never emitted in RoleTaggedSentence lists
)

// RoleTaggedSentence is a non-neutral sentence with its role
type RoleTaggedSentence struct {
	Sentence string `json:"sentence"`
	Role     Role   `json:"role"`
}

// AmbiguityAnnotation marks whether a clause uses vague drafting language
type AmbiguityAnnotation struct {
	ClauseID  string   `json:"clause_id"`
	Ambiguous bool     `json:"ambiguous"`
	Phrases   []string `json:"phrases,omitempty"` // Vocabulary entries that matched
}

// TemplateMatch is the best-scoring reference template for a clause.
// TemplateName is empty and Similarity is 0 when nothing matched.
type TemplateMatch struct {
	TemplateName string  `json:"template_name"`
	Similarity   float64 `json:"similarity"`
}

// DimensionBag holds extracted evidence strings per fact category.
// Lists are unordered and may contain duplicates.
type DimensionBag struct {
	Parties         []string `json:"parties"`
	Amounts         []string `json:"amounts"`
	Dates           []string `json:"dates"`
	Jurisdiction    []string `json:"jurisdiction"`
	GoverningLaw    []string `json:"governing_law"`
	IPRights        []string `json:"ip_rights"`
	Confidentiality []string `json:"confidentiality"`
}

// NewDimensionBag returns a bag with every list initialized, so that JSON
// output carries [] rather than null for empty dimensions.
func NewDimensionBag() DimensionBag {
	return DimensionBag{
		Parties:         []string{},
		Amounts:         []string{},
		Dates:           []string{},
		Jurisdiction:    []string{},
		GoverningLaw:    []string{},
		IPRights:        []string{},
		Confidentiality: []string{},
	}
}
