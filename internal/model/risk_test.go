package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRiskConfig_IsValidAndFresh(t *testing.T) {
	a := DefaultRiskConfig()
	assert.NoError(t, a.Validate())

	a.RiskWeights["penalty_clause"] = 99
	b := DefaultRiskConfig()
	assert.Equal(t, 3, b.Weight("penalty_clause"), "defaults must not share state between calls")
}

func TestRiskConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *RiskConfig)
	}{
		{"equal thresholds", func(c *RiskConfig) { c.Thresholds = Thresholds{Low: 0, Medium: 6, High: 6} }},
		{"reversed thresholds", func(c *RiskConfig) { c.Thresholds = Thresholds{Low: 12, Medium: 6, High: 0} }},
		{"negative weight", func(c *RiskConfig) { c.RiskWeights["auto_renewal"] = -1 }},
		{"zero lock-in", func(c *RiskConfig) { c.LockInMaxMonths = 0 }},
		{"unnamed rule", func(c *RiskConfig) { c.Rules = []RuleSpec{{AnyOf: []string{"x"}}} }},
		{"duplicate rule", func(c *RiskConfig) {
			c.Rules = []RuleSpec{{Name: "a", AnyOf: []string{"x"}}, {Name: "a", AnyOf: []string{"y"}}}
		}},
		{"rule without phrases", func(c *RiskConfig) { c.Rules = []RuleSpec{{Name: "a", NoneOf: []string{"x"}}} }},
		{"rule with blank phrases", func(c *RiskConfig) {
			c.Rules = []RuleSpec{{Name: "a", AnyOf: []string{"  ", ""}, AllOf: []string{"\t"}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultRiskConfig()
			tt.mutate(c)
			err := c.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRiskConfig))
		})
	}
}

func TestRiskConfig_ZeroWeightIsValid(t *testing.T) {
	c := DefaultRiskConfig()
	c.RiskWeights["auto_renewal"] = 0
	assert.NoError(t, c.Validate())
}

func TestRiskConfig_LevelForIsInclusive(t *testing.T) {
	c := DefaultRiskConfig()

	assert.Equal(t, RiskLow, c.LevelFor(0))
	assert.Equal(t, RiskLow, c.LevelFor(5.99))
	assert.Equal(t, RiskMedium, c.LevelFor(6))
	assert.Equal(t, RiskMedium, c.LevelFor(11.5))
	assert.Equal(t, RiskHigh, c.LevelFor(12))
	assert.Equal(t, RiskHigh, c.LevelFor(40))
}

func TestRiskConfig_WeightUnknownFlag(t *testing.T) {
	assert.Equal(t, 0, DefaultRiskConfig().Weight("no_such_flag"))
}

func TestRiskFlagSet_Raised(t *testing.T) {
	s := RiskFlagSet{"b": true, "a": true, "c": false}
	assert.Equal(t, []string{"a", "b"}, s.Raised([]string{"a", "b", "c", "d"}))
	assert.Empty(t, RiskFlagSet{}.Raised([]string{"a"}))
}
