package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
)

// Analyzer analyzes one contract source (file path or URL)
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.Analysis, error)
}

// AnalyzeJob analyzes one source
type AnalyzeJob struct {
	Index    int
	Source   string
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute runs the analysis, waiting on the host limiter first for URLs
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &AnalyzeResult{Index: j.Index, Source: j.Source}

	if j.Limiter != nil && IsURL(j.Source) {
		if err := j.Limiter.WaitURL(ctx, j.Source); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Analysis, res.Error = j.Analyzer.AnalyzeSource(ctx, j.Source)
	res.Duration = time.Since(start)
	return res
}

// AnalyzeResult is the outcome for one source
type AnalyzeResult struct {
	Index    int
	Source   string
	Analysis *model.Analysis
	Error    error
	Duration time.Duration
}

// GetError returns the error from the analysis
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	log         logging.Logger
}

// NewBatchProcessor creates a new batch processor. limiter may be nil.
func NewBatchProcessor(analyzer Analyzer, concurrency int, limiter *Limiter, log logging.Logger) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
		log:         logging.OrNop(log).Named("batch"),
	}
}

// Process analyzes sources and returns one result per source in input order.
// A cancelled ctx leaves unstarted sources with ctx's error.
func (b *BatchProcessor) Process(ctx context.Context, sources []string) []*AnalyzeResult {
	if len(sources) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, source := range sources {
			job := &AnalyzeJob{Index: i, Source: source, Analyzer: b.analyzer, Limiter: b.limiter}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	results := make([]*AnalyzeResult, len(sources))
	for r := range pool.Results() {
		res := r.(*AnalyzeResult)
		results[res.Index] = res
		if res.Error != nil {
			b.log.Warn("analysis failed", logging.String("source", res.Source), logging.Err(res.Error))
		} else {
			b.log.Debug("analysis done",
				logging.String("source", res.Source),
				logging.Duration("duration", res.Duration))
		}
	}

	for i, res := range results {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &AnalyzeResult{Index: i, Source: sources[i], Error: err}
		}
	}

	return results
}

// ProcessFile reads sources from a file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.Process(ctx, sources), nil
}

// ReadSourcesFromFile reads file paths or URLs from a file (one per line).
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}

// IsURL reports whether source is an http(s) URL
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
