package model

import "time"

// Analysis is the complete clauseguard report for one contract
type Analysis struct {
	DocID        string    `json:"doc_id"`        // Random UUID assigned per run
	Source       string    `json:"source"`        // File path or URL that was analyzed
	ContractType string    `json:"contract_type"` // employment, vendor, lease, ...
	AnalyzedAt   time.Time `json:"analyzed_at"`

	Clauses    []ClauseAnalysis      `json:"clauses"`
	Risk       ContractRiskSummary   `json:"risk"`
	Dimensions DimensionBag          `json:"dimensions"`
	Roles      []RoleTaggedSentence  `json:"roles"`
	Ambiguity  []AmbiguityAnnotation `json:"ambiguity"`

	Principles Principles `json:"principles"`

	LLM *LLMSection `json:"llm,omitempty"` // Optional, never affects scores
}

// ClauseAnalysis bundles every per-clause result
type ClauseAnalysis struct {
	Clause
	Risk      RiskAssessment      `json:"risk"`
	Ambiguity AmbiguityAnnotation `json:"ambiguity"`
	Template  TemplateMatch       `json:"template"`

	Explanation string `json:"explanation,omitempty"` // LLM or fallback text
	Alternative string `json:"alternative,omitempty"` // Suggested safer wording
}

// Principles documents the limits of the analysis
type Principles struct {
	Heuristic      bool `json:"heuristic"`        // Pattern matching, not legal reasoning
	NotLegalAdvice bool `json:"not_legal_advice"` // No substitute for legal review
	Deterministic  bool `json:"deterministic"`    // Same text + config -> same scores
	LLMNeverScores bool `json:"llm_never_scores"` // Generated text is kept apart from scoring
}

// DefaultPrinciples returns the standard clauseguard principles
func DefaultPrinciples() Principles {
	return Principles{
		Heuristic:      true,
		NotLegalAdvice: true,
		Deterministic:  true,
		LLMNeverScores: true,
	}
}

// LLMSection contains optional generated text
type LLMSection struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"` // openai, anthropic, ollama, or "fallback"
	Model    string   `json:"model,omitempty"`
	Language string   `json:"language,omitempty"` // en or hi
	Summary  string   `json:"summary,omitempty"`
	Warnings []string `json:"warnings,omitempty"` // Calls that fell back to canned text
}
