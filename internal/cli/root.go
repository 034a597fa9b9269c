// Package cli implements the clauseguard command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/clauseguard/internal/config"
	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the release version, overridden at build time
var Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	logFormat string

	logger = logging.NewNopLogger()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clauseguard",
	Short: "clauseguard - contract risk review for Indian SMEs (heuristic, not legal advice)",
	Long: `clauseguard reads a contract and points out clauses that deserve a
second look before signing.

It splits the contract into clauses, scores each clause against a
configurable set of risk patterns, flags vague wording, extracts parties,
amounts, dates and jurisdiction, and compares clauses with reference
templates. An optional LLM explains clauses in plain English or Hindi.

Scores are deterministic pattern matches. They are not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clauseguard v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.clauseguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// envKeys are the nested settings that CLAUSEGUARD_* variables may override,
// e.g. CLAUSEGUARD_LLM_PROVIDER
var envKeys = []string{
	"risk_config",
	"templates.dir",
	"similarity.backend",
	"llm.provider",
	"llm.model",
	"llm.api_key",
	"llm.base_url",
	"llm.language",
	"cache.enabled",
	"cache.dir",
	"http.user_agent",
	"http.http_proxy",
	"http.https_proxy",
	"log.level",
	"log.format",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// A .env file in the working directory is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".clauseguard"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CLAUSEGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// loadConfig merges the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setupLogger() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if verbose {
		level = "debug"
	}
	if logFormat != "" {
		format = logFormat
	}
	l, err := logging.New(logging.Config{Level: level, Format: format})
	if err != nil {
		return err
	}
	logger = l

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", logging.String("path", used))
	}
	return nil
}

// loadRiskConfig returns the risk config at path, falling back to defaults
func loadRiskConfig(path string) *model.RiskConfig {
	return config.NewLoader(path, logger).Get()
}
