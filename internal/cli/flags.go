package cli

import (
	"time"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/spf13/cobra"
)

// analysisFlags are shared by analyze and batch. Only flags the user set
// override the loaded configuration.
type analysisFlags struct {
	contractType string
	riskConfig   string
	templatesDir string
	noExplain    bool
	llmProvider  string
	llmModel     string
	language     string
	similarity   string
	httpTimeout  time.Duration
	userAgent    string
	noRobots     bool
	httpProxy    string
	httpsProxy   string
	noCache      bool
	noFooter     bool
	noColor      bool
	metricsFile  string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.contractType, "type", "", "contract type (employment, vendor, lease, partnership, service, other); detected when empty")
	fs.StringVar(&f.riskConfig, "risk-config", "", "risk weights and thresholds file (YAML or JSON)")
	fs.StringVar(&f.templatesDir, "templates", "", "directory of <type>_en.txt reference templates")
	fs.BoolVar(&f.noExplain, "no-explain", false, "skip clause explanations and suggestions")
	fs.StringVar(&f.llmProvider, "llm-provider", "", "LLM provider for explanations (openai, anthropic, ollama)")
	fs.StringVar(&f.llmModel, "llm-model", "", "LLM model name")
	fs.StringVar(&f.language, "language", "", "explanation language (en, hi)")
	fs.StringVar(&f.similarity, "similarity", "", "template similarity backend (bow, embedding)")
	fs.DurationVar(&f.httpTimeout, "http-timeout", 30*time.Second, "timeout for fetching a contract URL")
	fs.StringVar(&f.userAgent, "ua", "", "HTTP User-Agent")
	fs.BoolVar(&f.noRobots, "ignore-robots", false, "do not check robots.txt before fetching")
	fs.StringVar(&f.httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.StringVar(&f.httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the embedding cache")
	fs.BoolVar(&f.noFooter, "no-footer", false, "disable the disclaimer footer")
	fs.BoolVar(&f.noColor, "no-color", false, "plain terminal output")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
}

func (f *analysisFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("risk-config") {
		cfg.RiskConfigPath = f.riskConfig
	}
	if changed("templates") {
		cfg.Templates.Dir = f.templatesDir
	}
	if changed("llm-provider") {
		cfg.LLM.Provider = f.llmProvider
	}
	if changed("llm-model") {
		cfg.LLM.Model = f.llmModel
	}
	if changed("language") {
		cfg.LLM.Language = f.language
	}
	if changed("similarity") {
		cfg.Similarity.Backend = f.similarity
	}
	if changed("http-timeout") {
		cfg.HTTP.Timeout = f.httpTimeout
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = f.userAgent
	}
	if f.noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = f.httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = f.httpsProxy
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.noFooter {
		cfg.Output.IncludeFooter = false
	}
	if f.noColor {
		cfg.Output.Color = false
	}
	cfg.Output.Verbose = verbose
}
