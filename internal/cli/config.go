package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/risk"
	"github.com/ppiankov/clauseguard/internal/template"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage clauseguard configuration",
	Long: `Manage clauseguard configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLAUSEGUARD_*, also read from ./.env)
3. Config file (~/.clauseguard/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Show the effective risk weights and thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		yamlData, err := yaml.Marshal(loadRiskConfig(cfg.RiskConfigPath))
		if err != nil {
			return fmt.Errorf("error marshaling risk config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration files",
	Long: `Create ~/.clauseguard/config.yaml and ~/.clauseguard/risk_config.yaml
with the built-in defaults. Existing files are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		configDir := filepath.Dir(cfg.RiskConfigPath)
		configPath := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		header := "# clauseguard configuration\n" +
			"#\n" +
			"# Configuration hierarchy (highest to lowest priority):\n" +
			"#   1. CLI flags\n" +
			"#   2. Environment variables (CLAUSEGUARD_*)\n" +
			"#   3. This config file\n" +
			"#   4. Built-in defaults\n" +
			"#\n" +
			"# API keys are read from OPENAI_API_KEY, ANTHROPIC_API_KEY and\n" +
			"# OLLAMA_BASE_URL, or from a .env file.\n\n"
		if err := writeYAMLFile(configPath, header, cfg); err != nil {
			return err
		}

		riskHeader := "# Risk weights per flag and inclusive level thresholds.\n" +
			"# Extra keyword rules go under \"rules\" with any_of/all_of/none_of phrases.\n\n"
		if err := writeYAMLFile(cfg.RiskConfigPath, riskHeader, model.DefaultRiskConfig()); err != nil {
			return err
		}

		fmt.Printf("\nTo customize, edit the files with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n\n", configPath)
		return nil
	},
}

func writeYAMLFile(path, header string, v interface{}) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("• %s already exists, skipping\n", path)
		return nil
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Printf("✓ Created %s\n", path)
	return nil
}

// rulesCmd lists the active risk rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active risk rules and their weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		riskCfg := loadRiskConfig(cfg.RiskConfigPath)

		reg, err := risk.DefaultRegistry(riskCfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FLAG\tWEIGHT")
		for _, name := range reg.Names() {
			fmt.Fprintf(w, "%s\t%d\n", name, riskCfg.Weight(name))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		t := riskCfg.Thresholds
		fmt.Printf("\nThresholds: low >= %d, medium >= %d, high >= %d\n", t.Low, t.Medium, t.High)
		fmt.Printf("Lock-in longer than %d months is flagged\n", riskCfg.LockInMaxMonths)
		return nil
	},
}

// templatesCmd lists contract types with reference templates
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List reference templates per contract type",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store := template.NewStore(cfg.Templates.Dir, logger)
		types, err := store.Types()
		if err != nil {
			return err
		}
		if len(types) == 0 {
			fmt.Printf("No templates found in %s\n", store.Dir())
			return nil
		}

		for _, t := range types {
			set := store.Load(t)
			fmt.Printf("%s (%d)\n", t, len(set))
			for _, tmpl := range set {
				fmt.Printf("  - %s\n", tmpl.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configRiskCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(templatesCmd)
}
