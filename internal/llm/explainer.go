package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
)

// ErrDisabled is returned when no provider is configured
var ErrDisabled = errors.New("llm disabled")

// RateLimiter throttles calls per key
type RateLimiter interface {
	Wait(ctx context.Context, key string) error
}

// Explainer produces clause explanations, contract summaries and alternative
// clauses. Every method except ClassifyContractType falls back to canned text
// when the provider is missing or fails; the bool result reports whether the
// text was generated.
type Explainer struct {
	provider Provider
	limiter  RateLimiter
	language string
	log      logging.Logger
}

// NewExplainer creates an explainer. provider and limiter may be nil.
func NewExplainer(provider Provider, limiter RateLimiter, language string, log logging.Logger) *Explainer {
	return &Explainer{
		provider: provider,
		limiter:  limiter,
		language: NormalizeLanguage(language),
		log:      logging.OrNop(log).Named("llm"),
	}
}

// Enabled reports whether a provider is configured
func (e *Explainer) Enabled() bool {
	return e.provider != nil
}

// ProviderName returns the provider name, or FallbackProvider
func (e *Explainer) ProviderName() string {
	if e.provider == nil {
		return FallbackProvider
	}
	return e.provider.Name()
}

// Language returns the output language (en or hi)
func (e *Explainer) Language() string {
	return e.language
}

// ExplainClause explains a clause in plain language
func (e *Explainer) ExplainClause(ctx context.Context, clauseText string, level model.RiskLevel) (string, bool) {
	text, err := e.generate(ctx, buildExplainPrompt(clauseText, level, e.language))
	if err != nil {
		e.warn("explain clause", err)
		return FallbackExplanation(level, e.language), false
	}
	return text, true
}

// SummarizeContract writes a short overall summary
func (e *Explainer) SummarizeContract(ctx context.Context, contractType string, level model.RiskLevel, keyRisks []string) (string, bool) {
	text, err := e.generate(ctx, buildSummaryPrompt(contractType, level, keyRisks, e.language))
	if err != nil {
		e.warn("summarize contract", err)
		return FallbackSummary(contractType, level, e.language), false
	}
	return text, true
}

// SuggestAlternative proposes safer wording for a clause
func (e *Explainer) SuggestAlternative(ctx context.Context, clauseText string) (string, bool) {
	text, err := e.generate(ctx, buildAlternativePrompt(clauseText))
	if err != nil {
		e.warn("suggest alternative", err)
		return FallbackAlternative(), false
	}
	return text, true
}

// ClassifyContractType asks the provider for a contract type label. The raw
// label is returned; callers validate it.
func (e *Explainer) ClassifyContractType(ctx context.Context, text string) (string, error) {
	label, err := e.generate(ctx, buildClassifyPrompt(text))
	if err != nil {
		return "", err
	}
	return strings.ToLower(label), nil
}

func (e *Explainer) generate(ctx context.Context, prompt string) (string, error) {
	if e.provider == nil {
		return "", ErrDisabled
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
			return "", err
		}
	}

	resp, err := e.provider.Generate(ctx, GenerateRequest{System: systemPrompt, Prompt: prompt})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("empty response")
	}

	e.log.Debug("generated text",
		logging.String("provider", e.provider.Name()),
		logging.String("model", resp.Model),
		logging.Int("tokens", resp.TokensUsed))
	return text, nil
}

func (e *Explainer) warn(op string, err error) {
	if errors.Is(err, ErrDisabled) {
		return
	}
	e.log.Warn("llm call failed, using fallback text",
		logging.String("op", op),
		logging.String("provider", e.ProviderName()),
		logging.Err(err))
}
