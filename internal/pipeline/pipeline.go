// Package pipeline analyzes one contract end to end: segmentation, parsing,
// per-clause scoring, extraction, classification and optional explanation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/clauseguard/internal/ambiguity"
	"github.com/ppiankov/clauseguard/internal/cache"
	"github.com/ppiankov/clauseguard/internal/classify"
	"github.com/ppiankov/clauseguard/internal/extract"
	"github.com/ppiankov/clauseguard/internal/ingest"
	"github.com/ppiankov/clauseguard/internal/llm"
	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/metrics"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/nlp"
	"github.com/ppiankov/clauseguard/internal/risk"
	"github.com/ppiankov/clauseguard/internal/segment"
	"github.com/ppiankov/clauseguard/internal/template"
	"github.com/ppiankov/clauseguard/internal/worker"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the analysis of one document
type Pipeline struct {
	segmenter  segment.Segmenter
	parser     nlp.Parser
	engine     *risk.Engine
	detector   *ambiguity.Detector
	dimensions *extract.DimensionExtractor
	roles      *extract.RoleClassifier
	similarity nlp.Similarity
	matcher    *template.Matcher
	classifier *classify.Classifier
	explainer  *llm.Explainer
	loader     *ingest.Loader
	renderer   *Renderer
	metrics    metrics.Recorder
	log        logging.Logger

	config        *model.Config
	riskConfig    *model.RiskConfig
	clauseWorkers int
	explain       bool
	contractType  string
	suggestFor    model.RiskLevel
	llmModel      string

	newID func() string
	now   func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(log logging.Logger) Option {
	return func(p *Pipeline) { p.log = logging.OrNop(log) }
}

// WithParser replaces the rule-based document parser
func WithParser(parser nlp.Parser) Option {
	return func(p *Pipeline) { p.parser = parser }
}

// WithSimilarity replaces the configured similarity backend
func WithSimilarity(sim nlp.Similarity) Option {
	return func(p *Pipeline) { p.similarity = sim }
}

// WithSegmenter replaces the default heading segmenter
func WithSegmenter(s segment.Segmenter) Option {
	return func(p *Pipeline) { p.segmenter = s }
}

// WithExplainer replaces the explainer built from the LLM configuration
func WithExplainer(e *llm.Explainer) Option {
	return func(p *Pipeline) { p.explainer = e }
}

// WithMetrics sets the metrics recorder
func WithMetrics(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = metrics.OrNop(r) }
}

// WithExplanations turns the explanation stage on or off
func WithExplanations(enabled bool) Option {
	return func(p *Pipeline) { p.explain = enabled }
}

// WithContractType fixes the contract type for AnalyzeSource instead of
// classifying each document
func WithContractType(t string) Option {
	return func(p *Pipeline) { p.contractType = t }
}

// NewPipeline builds a pipeline from the application and risk configuration
func NewPipeline(cfg *model.Config, riskCfg *model.RiskConfig, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if riskCfg == nil {
		riskCfg = model.DefaultRiskConfig()
	}

	engine, err := risk.NewEngine(riskCfg)
	if err != nil {
		return nil, fmt.Errorf("risk engine: %w", err)
	}

	p := &Pipeline{
		segmenter:     segment.NewDefaultSegmenter(),
		parser:        nlp.NewRuleParser(),
		engine:        engine,
		detector:      ambiguity.NewDetector(nil),
		dimensions:    extract.NewDimensionExtractor(),
		roles:         extract.NewRoleClassifier(),
		metrics:       metrics.Nop{},
		log:           logging.NewNopLogger(),
		config:        cfg,
		riskConfig:    riskCfg,
		clauseWorkers: cfg.Concurrency.ClauseWorkers,
		explain:       true,
		suggestFor:    model.RiskLevel(strings.ToLower(cfg.LLM.SuggestFor)),
		llmModel:      cfg.LLM.Model,
		newID:         func() string { return uuid.New().String() },
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.clauseWorkers <= 0 {
		p.clauseWorkers = 1
	}

	if p.similarity == nil {
		p.similarity = p.newSimilarity()
	}
	p.matcher = template.NewMatcher(template.NewStore(cfg.Templates.Dir, p.log), p.similarity, p.log)

	if p.explainer == nil {
		p.explainer = p.newExplainer()
	}

	var refiner classify.Refiner
	if p.explainer.Enabled() {
		refiner = p.explainer
	}
	p.classifier = classify.NewClassifier(refiner, p.log)
	p.loader = ingest.NewLoader(cfg.HTTP, p.log)
	p.renderer = NewRenderer(cfg.Output.IncludeFooter, cfg.Output.Color)
	p.log = p.log.Named("pipeline")

	return p, nil
}

func (p *Pipeline) newSimilarity() nlp.Similarity {
	if !strings.EqualFold(p.config.Similarity.Backend, "embedding") {
		return nlp.NewBagOfWords()
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := ""
	if strings.EqualFold(p.config.LLM.Provider, "openai") {
		if p.config.LLM.APIKey != "" {
			apiKey = p.config.LLM.APIKey
		}
		baseURL = p.config.LLM.BaseURL
	}

	emb, err := nlp.NewEmbedding(nlp.EmbeddingConfig{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      p.config.Similarity.EmbeddingModel,
		Timeout:    time.Duration(p.config.LLM.Timeout) * time.Second,
		HTTPProxy:  p.config.HTTP.HTTPProxy,
		HTTPSProxy: p.config.HTTP.HTTPSProxy,
	}, cache.New(p.config.Cache), p.log)
	if err != nil {
		p.log.Warn("embedding similarity unavailable, using bag of words", logging.Err(err))
		return nlp.NewBagOfWords()
	}
	return emb
}

func (p *Pipeline) newExplainer() *llm.Explainer {
	provider, err := llm.NewProvider(llm.ConfigFromModel(p.config.LLM, p.config.HTTP), p.log)
	if err != nil {
		p.log.Warn("LLM provider unavailable, explanations use fallback text", logging.Err(err))
		provider = nil
	}
	limiter := worker.NewLimiter(p.config.LLM.RequestsPerSecond, p.config.LLM.Burst)
	return llm.NewExplainer(provider, limiter, p.config.LLM.Language, p.log)
}

// RiskConfig returns the risk configuration in use
func (p *Pipeline) RiskConfig() *model.RiskConfig {
	return p.riskConfig
}

// Explainer returns the explainer in use
func (p *Pipeline) Explainer() *llm.Explainer {
	return p.explainer
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// RenderReport writes the requested outputs and prints a summary to out.
// Generated text goes to a separate .llm.md file next to the Markdown report.
func (p *Pipeline) RenderReport(a *model.Analysis, jsonPath, mdPath string, out io.Writer) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(a, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.log.Info("wrote JSON report", logging.String("path", jsonPath))
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(a, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.log.Info("wrote Markdown report", logging.String("path", mdPath))

		if a.LLM != nil {
			llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
			if err := p.renderer.RenderLLMMarkdown(a, llmPath); err != nil {
				p.log.Warn("write explanations failed", logging.String("path", llmPath), logging.Err(err))
			} else {
				p.log.Info("wrote explanations", logging.String("path", llmPath))
			}
		}
	}

	if out != nil {
		p.renderer.RenderSummary(out, a)
	}
	return nil
}

// AnalyzeSource loads a file path or URL and analyzes it
func (p *Pipeline) AnalyzeSource(ctx context.Context, source string) (*model.Analysis, error) {
	doc, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, doc.Source, doc.Text, p.contractType)
}

// Analyze runs the full analysis over cleaned contract text. A non-empty
// contractType skips classification. Scores depend only on text and the risk
// configuration; generated text is attached afterwards.
func (p *Pipeline) Analyze(ctx context.Context, source, text, contractType string) (*model.Analysis, error) {
	start := time.Now()

	clauses := p.segmenter.Segment(text)

	doc, err := p.parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	ctype, err := p.contractTypeFor(ctx, text, contractType)
	if err != nil {
		return nil, err
	}

	results, err := p.analyzeClauses(ctx, clauses, string(ctype))
	if err != nil {
		return nil, fmt.Errorf("analyze clauses: %w", err)
	}

	assessments := make([]model.RiskAssessment, len(results))
	annotations := make([]model.AmbiguityAnnotation, len(results))
	for i, r := range results {
		assessments[i] = r.Risk
		annotations[i] = r.Ambiguity
	}

	analysis := &model.Analysis{
		DocID:        p.newID(),
		Source:       source,
		ContractType: string(ctype),
		AnalyzedAt:   p.now(),
		Clauses:      results,
		Risk:         p.engine.Summarize(assessments),
		Dimensions:   p.dimensions.Extract(doc),
		Roles:        p.roles.Classify(doc),
		Ambiguity:    annotations,
		Principles:   model.DefaultPrinciples(),
	}

	if p.explain {
		analysis.LLM = p.explainAnalysis(ctx, analysis)
	}

	elapsed := time.Since(start)
	p.metrics.RecordAnalysis(analysis, elapsed)
	p.log.Info("analyzed contract",
		logging.String("source", source),
		logging.String("doc_id", analysis.DocID),
		logging.String("contract_type", analysis.ContractType),
		logging.Int("clauses", len(results)),
		logging.String("level", string(analysis.Risk.Level)),
		logging.Duration("elapsed", elapsed))

	return analysis, nil
}

func (p *Pipeline) contractTypeFor(ctx context.Context, text, override string) (classify.ContractType, error) {
	if strings.TrimSpace(override) == "" {
		return p.classifier.Classify(ctx, text), nil
	}
	t, ok := classify.Parse(override)
	if !ok {
		return "", fmt.Errorf("unknown contract type %q", override)
	}
	return t, nil
}

// analyzeClauses scores, annotates and matches every clause with bounded
// concurrency. Results are stored by index, so order follows the clauses.
func (p *Pipeline) analyzeClauses(ctx context.Context, clauses []model.Clause, contractType string) ([]model.ClauseAnalysis, error) {
	results := make([]model.ClauseAnalysis, len(clauses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.clauseWorkers)

	for i := range clauses {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := clauses[i]
			results[i] = model.ClauseAnalysis{
				Clause:    c,
				Risk:      p.engine.ScoreClause(c.Text),
				Ambiguity: p.detector.Annotate(c),
				Template:  p.matcher.BestMatch(gctx, c.Text, contractType),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var levelRank = map[model.RiskLevel]int{
	model.RiskLow:    1,
	model.RiskMedium: 2,
	model.RiskHigh:   3,
}

func (p *Pipeline) wantsAlternative(level model.RiskLevel) bool {
	threshold, ok := levelRank[p.suggestFor]
	return ok && levelRank[level] >= threshold
}

// explainAnalysis fills clause explanations and alternatives and returns the
// contract summary section. Failures never abort the analysis.
func (p *Pipeline) explainAnalysis(ctx context.Context, a *model.Analysis) *model.LLMSection {
	e := p.explainer
	section := &model.LLMSection{
		Enabled:  e.Enabled(),
		Provider: e.ProviderName(),
		Language: e.Language(),
	}
	if e.Enabled() {
		section.Model = p.llmModel
	}

	fellBack := func(op string) bool {
		if !e.Enabled() {
			return false
		}
		p.metrics.RecordLLMFallback(op)
		return true
	}

	// Warnings are collected per clause so they keep clause order
	clauseWarnings := make([][]string, len(a.Clauses))
	var g errgroup.Group
	g.SetLimit(p.clauseWorkers)
	for i := range a.Clauses {
		i := i
		g.Go(func() error {
			c := &a.Clauses[i]
			text, ok := e.ExplainClause(ctx, c.Text, c.Risk.Level)
			c.Explanation = text
			if !ok && fellBack("explain") {
				clauseWarnings[i] = append(clauseWarnings[i], fmt.Sprintf("explain %s: fallback text used", c.ID))
			}
			if p.wantsAlternative(c.Risk.Level) {
				alt, ok := e.SuggestAlternative(ctx, c.Text)
				c.Alternative = alt
				if !ok && fellBack("alternative") {
					clauseWarnings[i] = append(clauseWarnings[i], fmt.Sprintf("alternative %s: fallback text used", c.ID))
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, w := range clauseWarnings {
		section.Warnings = append(section.Warnings, w...)
	}

	keyRisks := make([]string, 0, len(a.Risk.FlagCounts))
	for _, flag := range p.engine.FlagOrder() {
		if a.Risk.FlagCounts[flag] > 0 {
			keyRisks = append(keyRisks, flag)
		}
	}

	summary, ok := e.SummarizeContract(ctx, a.ContractType, a.Risk.Level, keyRisks)
	section.Summary = summary
	if !ok && fellBack("summary") {
		section.Warnings = append(section.Warnings, "summary: fallback text used")
	}
	return section
}
