package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchOpts    analysisFlags
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many contracts listed in a file",
	Long: `Batch analyzes contracts concurrently:
- Reads file paths or URLs from the input file (one per line, # for comments)
- Analyzes documents in parallel with a configurable worker count
- Throttles requests per host when fetching URLs
- Writes a JSON and Markdown report per document

Example:
  clauseguard batch contracts.txt
  clauseguard batch contracts.txt --concurrency 8 --output-dir ./reports
  clauseguard batch urls.txt --no-explain --metrics-file clauseguard.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchOpts.register(batchCmd)
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "documents analyzed in parallel (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./clauseguard-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batchOpts.apply(cmd, cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, prom, err := newPipeline(cfg, &batchOpts)
	if err != nil {
		return err
	}
	defer writeMetrics(prom, batchOpts.metricsFile)

	limiter := worker.NewLimiter(cfg.HTTP.RatePerHost, cfg.HTTP.RateBurst)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter, logger)

	logger.Info("starting batch",
		logging.String("input", file),
		logging.Int("workers", cfg.Concurrency.Workers),
		logging.String("output_dir", outputDir))

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := p.Renderer()
	used := make(map[string]int)
	successCount, failureCount := 0, 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		slug := uniqueSlug(sanitizeFilename(result.Source), used)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Analysis, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Analysis, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Source, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%s, risk %s, %d clauses)\n",
			result.Source, result.Analysis.ContractType, result.Analysis.Risk.Level, len(result.Analysis.Clauses))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename turns a path or URL into a report base name
func sanitizeFilename(source string) string {
	s := source
	if worker.IsURL(s) {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	} else {
		s = filepath.Base(s)
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}

	s = strings.Trim(unsafeNameRe.ReplaceAllString(s, "_"), "_.")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "contract"
	}
	return s
}

// uniqueSlug appends a counter when two sources map to the same name
func uniqueSlug(slug string, used map[string]int) string {
	n := used[slug]
	used[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n+1)
}
