package risk

import (
	"github.com/ppiankov/clauseguard/internal/model"
)

// Engine scores clauses and contracts. It holds no per-call state and is
// safe for concurrent use once built.
type Engine struct {
	cfg      *model.RiskConfig
	registry *Registry
}

// NewEngine builds an engine with DefaultRegistry(cfg)
func NewEngine(cfg *model.RiskConfig) (*Engine, error) {
	reg, err := DefaultRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return NewEngineWithRegistry(cfg, reg), nil
}

// NewEngineWithRegistry builds an engine over an explicit rule set
func NewEngineWithRegistry(cfg *model.RiskConfig, reg *Registry) *Engine {
	return &Engine{cfg: cfg, registry: reg}
}

// Config returns the risk config the engine scores with
func (e *Engine) Config() *model.RiskConfig {
	return e.cfg
}

// FlagOrder returns flag names in rule evaluation order
func (e *Engine) FlagOrder() []string {
	return e.registry.Names()
}

// ScoreClause evaluates every rule against text. Each raised flag adds its
// weight (0 when unconfigured) and is recorded in Contributions.
func (e *Engine) ScoreClause(text string) model.RiskAssessment {
	flags := make(model.RiskFlagSet, e.registry.Len())
	contributions := make(map[string]int)
	score := 0

	for _, rule := range e.registry.rules {
		hit := rule.Detect(text)
		flags[rule.Name()] = hit
		if !hit {
			continue
		}
		w := e.cfg.Weight(rule.Name())
		contributions[rule.Name()] = w
		score += w
	}

	return model.RiskAssessment{
		Score:         score,
		Level:         e.cfg.LevelFor(float64(score)),
		Flags:         flags,
		Contributions: contributions,
	}
}

// ScoreContract scores each clause and aggregates the results
func (e *Engine) ScoreContract(clauses []model.Clause) model.ContractRiskSummary {
	assessments := make([]model.RiskAssessment, len(clauses))
	for i, c := range clauses {
		assessments[i] = e.ScoreClause(c.Text)
	}
	return e.Summarize(assessments)
}

// Summarize aggregates clause assessments. The contract level is derived
// from the average score; the total is reported only.
func (e *Engine) Summarize(assessments []model.RiskAssessment) model.ContractRiskSummary {
	total := 0
	counts := make(map[string]int)
	for _, a := range assessments {
		total += a.Score
		for name, hit := range a.Flags {
			if hit {
				counts[name]++
			}
		}
	}

	avg := 0.0
	if len(assessments) > 0 {
		avg = float64(total) / float64(len(assessments))
	}

	return model.ContractRiskSummary{
		TotalScore:   total,
		AvgScore:     avg,
		Level:        e.cfg.LevelFor(avg),
		ClauseScores: assessments,
		FlagCounts:   counts,
	}
}
