package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRiskConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadRiskConfig("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
}

func TestLoadRiskConfig_MissingFileFallsBack(t *testing.T) {
	cfg, err := LoadRiskConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
}

func TestLoadRiskConfig_PartialYAMLMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "risk.yaml", `
risk_weights:
  penalty_clause: 5
lock_in_max_months: 24
`)
	cfg, err := LoadRiskConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Weight("penalty_clause"))
	assert.Equal(t, 4, cfg.Weight("unilateral_termination"), "untouched default weight must survive")
	assert.Equal(t, 24, cfg.LockInMaxMonths)
	assert.Equal(t, model.Thresholds{Low: 0, Medium: 6, High: 12}, cfg.Thresholds)
}

func TestLoadRiskConfig_JSONWithRules(t *testing.T) {
	path := writeFile(t, "risk.json", `{
  "thresholds": {"low": 1, "medium": 5, "high": 9},
  "rules": [
    {"name": "broad_indemnity", "any_of": ["indemnify and hold harmless"], "none_of": ["mutual"]}
  ]
}`)
	cfg, err := LoadRiskConfig(path)
	require.NoError(t, err)

	assert.Equal(t, model.Thresholds{Low: 1, Medium: 5, High: 9}, cfg.Thresholds)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "broad_indemnity", cfg.Rules[0].Name)
	assert.Equal(t, []string{"indemnify and hold harmless"}, cfg.Rules[0].AnyOf)
	assert.Equal(t, []string{"mutual"}, cfg.Rules[0].NoneOf)
}

func TestLoadRiskConfig_InvalidThresholdsRejected(t *testing.T) {
	path := writeFile(t, "risk.yaml", `
thresholds:
  low: 0
  medium: 12
  high: 6
`)
	cfg, err := LoadRiskConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidRiskConfig))
	assert.False(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
}

func TestLoadRiskConfig_RuleRedefiningBuiltinRejected(t *testing.T) {
	path := writeFile(t, "risk.yaml", `
rules:
  - name: penalty_clause
    any_of: [fine]
`)
	cfg, err := LoadRiskConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidRiskConfig))
	assert.True(t, errors.Is(err, risk.ErrDuplicateRule))
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
}

func TestLoader_BadRulesFallBackToUsableDefaults(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{"builtin name", "rules:\n  - name: penalty_clause\n    any_of: [fine]\n"},
		{"blank phrases", "rules:\n  - name: x\n    any_of: [\"  \"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			cfg := NewLoader(writeFile(t, "risk.yaml", tt.rules), logging.NewFromCore(core)).Get()

			assert.Equal(t, model.DefaultRiskConfig(), cfg)
			assert.Equal(t, 1, logs.FilterMessage("risk config rejected, using defaults").Len())

			_, err := risk.NewEngine(cfg)
			assert.NoError(t, err)
		})
	}
}

func TestLoadRiskConfig_UnreadableSyntax(t *testing.T) {
	path := writeFile(t, "risk.yaml", "risk_weights: [unterminated")
	cfg, err := LoadRiskConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
}

func TestLoader_LoadsOnceAndLogs(t *testing.T) {
	path := writeFile(t, "risk.yaml", `
thresholds:
  low: 5
  medium: 5
  high: 5
`)
	core, logs := observer.New(zapcore.DebugLevel)
	loader := NewLoader(path, logging.NewFromCore(core))

	var wg sync.WaitGroup
	results := make([]*model.RiskConfig, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = loader.Get()
		}(i)
	}
	wg.Wait()

	for _, cfg := range results {
		assert.Same(t, results[0], cfg)
	}
	assert.Equal(t, model.DefaultRiskConfig(), results[0])
	assert.Equal(t, 1, logs.FilterMessage("risk config rejected, using defaults").Len())
}

func TestLoader_MissingSourceIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), logging.NewFromCore(core))

	cfg := loader.Get()
	assert.Equal(t, model.DefaultRiskConfig(), cfg)
	assert.Equal(t, 0, logs.Len())
}

func TestLoadRiskConfig_ShippedExample(t *testing.T) {
	cfg, err := LoadRiskConfig(filepath.Join("..", "..", "configs", "risk_config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultRiskConfig().RiskWeights, cfg.RiskWeights)
	assert.Equal(t, model.Thresholds{Low: 0, Medium: 6, High: 12}, cfg.Thresholds)
	require.Len(t, cfg.Rules, 2)

	engine, err := risk.NewEngine(cfg)
	require.NoError(t, err)

	a := engine.ScoreClause("The Vendor shall indemnify and hold harmless the Company against all claims.")
	assert.True(t, a.Flags["broad_indemnity"])
	assert.Equal(t, 4, a.Score)

	a = engine.ScoreClause("Each party shall indemnify the other for its own negligence.")
	assert.False(t, a.Flags["broad_indemnity"])

	a = engine.ScoreClause("Disputes shall be settled by arbitration in Pune.")
	assert.False(t, a.Flags["missing_dispute_resolution"])
}
