package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/metrics"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	analyzeOpts    analysisFlags
	outJSON        string
	outMD          string
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file-or-url>",
	Short: "Analyze a single contract and report clause risks",
	Long: `Analyze reads a contract from a text or HTML file, or from a URL, and:
- Splits it into numbered clauses
- Scores each clause against the risk rules
- Flags vague wording ("best efforts", "from time to time", ...)
- Extracts parties, amounts, dates, jurisdiction and governing law
- Finds the closest reference template for each clause
- Optionally explains clauses in plain English or Hindi

Example:
  clauseguard analyze contract.txt
  clauseguard analyze contract.txt --json report.json --md report.md
  clauseguard analyze https://example.com/terms --type service
  clauseguard analyze contract.txt --llm-provider openai --language hi`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeOpts.register(analyzeCmd)
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (explanations go to <name>.llm.md)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

// newPipeline builds a pipeline from configuration and flags. The returned
// Prometheus collector is nil unless a metrics file was requested.
func newPipeline(cfg *model.Config, opts *analysisFlags) (*pipeline.Pipeline, *metrics.Prometheus, error) {
	riskCfg := loadRiskConfig(cfg.RiskConfigPath)

	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithExplanations(!opts.noExplain),
		pipeline.WithContractType(opts.contractType),
	}

	var prom *metrics.Prometheus
	if opts.metricsFile != "" {
		m, err := metrics.NewPrometheus()
		if err != nil {
			return nil, nil, err
		}
		prom = m
		pipeOpts = append(pipeOpts, pipeline.WithMetrics(prom))
	}

	p, err := pipeline.NewPipeline(cfg, riskCfg, pipeOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create pipeline: %w", err)
	}
	return p, prom, nil
}

func writeMetrics(prom *metrics.Prometheus, path string) {
	if prom == nil {
		return
	}
	if err := prom.WriteTextfile(path); err != nil {
		logger.Warn("write metrics failed", logging.String("path", path), logging.Err(err))
		return
	}
	logger.Info("wrote metrics", logging.String("path", path))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	analyzeOpts.apply(cmd, cfg)

	p, prom, err := newPipeline(cfg, &analyzeOpts)
	if err != nil {
		return err
	}

	logger.Debug("analyzing contract",
		logging.String("source", source),
		logging.Duration("timeout", analyzeTimeout),
		logging.String("llm", p.Explainer().ProviderName()))

	analysis, err := p.AnalyzeSource(ctx, source)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	defer writeMetrics(prom, analyzeOpts.metricsFile)

	if err := p.RenderReport(analysis, outJSON, outMD, os.Stdout); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
