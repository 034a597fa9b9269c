package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the application configuration assembled from defaults, the
// config file, CLAUSEGUARD_* environment variables and CLI flags
type Config struct {
	RiskConfigPath string            `mapstructure:"risk_config" yaml:"risk_config"`
	Templates      TemplatesConfig   `mapstructure:"templates" yaml:"templates"`
	Similarity     SimilarityConfig  `mapstructure:"similarity" yaml:"similarity"`
	LLM            LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Cache          CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Concurrency    ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	HTTP           HTTPConfig        `mapstructure:"http" yaml:"http"`
	Output         OutputConfig      `mapstructure:"output" yaml:"output"`
	Log            LogConfig         `mapstructure:"log" yaml:"log"`
}

// TemplatesConfig locates the reference clause templates
type TemplatesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"` // Holds <contract_type>_en.txt files
}

// SimilarityConfig selects the text-similarity backend for template matching
type SimilarityConfig struct {
	Backend        string `mapstructure:"backend" yaml:"backend"`                 // "bow" or "embedding"
	EmbeddingModel string `mapstructure:"embedding_model" yaml:"embedding_model"` // Used by the embedding backend
}

// LLMConfig configures the optional explanation layer
type LLMConfig struct {
	Provider          string  `mapstructure:"provider" yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model             string  `mapstructure:"model" yaml:"model"`
	APIKey            string  `mapstructure:"api_key" yaml:"-"` // Never written to disk
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout           int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Language          string  `mapstructure:"language" yaml:"language"` // en or hi
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
	SuggestFor        string  `mapstructure:"suggest_for" yaml:"suggest_for"` // Lowest clause level that gets an alternative
}

// CacheConfig controls the embedding cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds parallelism
type ConcurrencyConfig struct {
	Workers       int `mapstructure:"workers" yaml:"workers"`               // Documents in flight (batch)
	ClauseWorkers int `mapstructure:"clause_workers" yaml:"clause_workers"` // Clauses in flight per document
}

// HTTPConfig is used when a contract is fetched from a URL
type HTTPConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
	RatePerHost   float64       `mapstructure:"rate_per_host" yaml:"rate_per_host"` // Requests per second per host (batch)
	RateBurst     int           `mapstructure:"rate_burst" yaml:"rate_burst"`
	HTTPProxy     string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `mapstructure:"verbose" yaml:"verbose"`
	IncludeFooter bool `mapstructure:"include_footer" yaml:"include_footer"`
	Color         bool `mapstructure:"color" yaml:"color"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// DefaultConfig returns the built-in application defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".clauseguard")

	return &Config{
		RiskConfigPath: filepath.Join(base, "risk_config.yaml"),
		Templates: TemplatesConfig{
			Dir: filepath.Join(base, "templates"),
		},
		Similarity: SimilarityConfig{
			Backend:        "bow",
			EmbeddingModel: "text-embedding-3-small",
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30,
			MaxTokens:         600,
			Language:          "en",
			RequestsPerSecond: 2,
			Burst:             2,
			SuggestFor:        string(RiskMedium),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       runtime.NumCPU(),
			ClauseWorkers: 8,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "clauseguard/0.1 (+https://github.com/ppiankov/clauseguard)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
			RatePerHost:   1,
			RateBurst:     2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Color:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
