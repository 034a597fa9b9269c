package model

import (
	"errors"
	"fmt"
	"strings"
)

// RiskLevel buckets a score using the configured thresholds
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFlagSet maps flag names to whether the flag was raised
type RiskFlagSet map[string]bool

// Raised returns the names of raised flags in the given order
func (s RiskFlagSet) Raised(order []string) []string {
	var out []string
	for _, name := range order {
		if s[name] {
			out = append(out, name)
		}
	}
	return out
}

// RiskAssessment is the stateless, recomputable risk result for one clause
type RiskAssessment struct {
	Score         int            `json:"score"`
	Level         RiskLevel      `json:"level"`
	Flags         RiskFlagSet    `json:"flags"`
	Contributions map[string]int `json:"contributions"` // Weight per raised flag (0 is kept)
}

// ContractRiskSummary aggregates clause assessments for a whole contract.
// Level is derived from AvgScore; TotalScore is for reporting only.
type ContractRiskSummary struct {
	TotalScore   int              `json:"total_score"`
	AvgScore     float64          `json:"avg_score"`
	Level        RiskLevel        `json:"level"`
	ClauseScores []RiskAssessment `json:"clause_scores"`
	FlagCounts   map[string]int   `json:"flag_counts,omitempty"` // Clauses raising each flag
}

// Thresholds are the inclusive lower bounds of each risk level
type Thresholds struct {
	Low    int `mapstructure:"low" yaml:"low" json:"low"`
	Medium int `mapstructure:"medium" yaml:"medium" json:"medium"`
	High   int `mapstructure:"high" yaml:"high" json:"high"`
}

// RuleSpec declares a keyword risk rule in configuration.
// A clause matches when it contains at least one AnyOf phrase (or AnyOf is
// empty), every AllOf phrase, and no NoneOf phrase. Matching is case-insensitive.
type RuleSpec struct {
	Name   string   `mapstructure:"name" yaml:"name" json:"name"`
	AnyOf  []string `mapstructure:"any_of" yaml:"any_of,omitempty" json:"any_of,omitempty"`
	AllOf  []string `mapstructure:"all_of" yaml:"all_of,omitempty" json:"all_of,omitempty"`
	NoneOf []string `mapstructure:"none_of" yaml:"none_of,omitempty" json:"none_of,omitempty"`
}

// RiskConfig holds scoring weights and thresholds. It is loaded once per
// process and treated as read-only afterwards.
type RiskConfig struct {
	RiskWeights     map[string]int `mapstructure:"risk_weights" yaml:"risk_weights" json:"risk_weights"`
	Thresholds      Thresholds     `mapstructure:"thresholds" yaml:"thresholds" json:"thresholds"`
	LockInMaxMonths int            `mapstructure:"lock_in_max_months" yaml:"lock_in_max_months" json:"lock_in_max_months"`
	Rules           []RuleSpec     `mapstructure:"rules" yaml:"rules,omitempty" json:"rules,omitempty"`
}

// DefaultRiskConfig returns the built-in configuration used when no config
// source is available. Each call returns a fresh copy.
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		RiskWeights: map[string]int{
			"penalty_clause":             3,
			"broad_indemnity":            4,
			"unilateral_termination":     4,
			"auto_renewal":               2,
			"long_lock_in":               3,
			"broad_non_compete":          4,
			"full_ip_transfer":           3,
			"missing_dispute_resolution": 2,
		},
		Thresholds:      Thresholds{Low: 0, Medium: 6, High: 12},
		LockInMaxMonths: 12,
	}
}

// ErrInvalidRiskConfig is returned by Validate for configs that break an invariant
var ErrInvalidRiskConfig = errors.New("invalid risk config")

// Validate checks threshold ordering, weight signs and the lock-in limit
func (c *RiskConfig) Validate() error {
	t := c.Thresholds
	if !(t.Low < t.Medium && t.Medium < t.High) {
		return fmt.Errorf("%w: thresholds must satisfy low < medium < high (got %d, %d, %d)",
			ErrInvalidRiskConfig, t.Low, t.Medium, t.High)
	}
	for name, w := range c.RiskWeights {
		if w < 0 {
			return fmt.Errorf("%w: weight for %q is negative (%d)", ErrInvalidRiskConfig, name, w)
		}
	}
	if c.LockInMaxMonths <= 0 {
		return fmt.Errorf("%w: lock_in_max_months must be positive (got %d)", ErrInvalidRiskConfig, c.LockInMaxMonths)
	}
	seen := make(map[string]bool)
	for i, r := range c.Rules {
		if r.Name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidRiskConfig, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: rule %q declared twice", ErrInvalidRiskConfig, r.Name)
		}
		seen[r.Name] = true
		if !hasPhrase(r.AnyOf) && !hasPhrase(r.AllOf) {
			return fmt.Errorf("%w: rule %q has no non-blank any_of or all_of phrase", ErrInvalidRiskConfig, r.Name)
		}
	}
	return nil
}

func hasPhrase(phrases []string) bool {
	for _, p := range phrases {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// Weight returns the configured weight for a flag, 0 when unconfigured
func (c *RiskConfig) Weight(flag string) int {
	return c.RiskWeights[flag]
}

// LevelFor buckets a score. Comparisons are inclusive.
func (c *RiskConfig) LevelFor(score float64) RiskLevel {
	switch {
	case score >= float64(c.Thresholds.High):
		return RiskHigh
	case score >= float64(c.Thresholds.Medium):
		return RiskMedium
	default:
		return RiskLow
	}
}
