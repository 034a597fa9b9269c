// Package risk detects risky drafting patterns in clauses and scores them.
//
// Detection is driven by a Registry of named rules. The built-in rules cover
// the fixed flag set; configuration may add keyword rules for further flags
// such as broad_indemnity. Weights and thresholds come from model.RiskConfig.
package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
)

// Rule raises a single named flag for a clause text
type Rule interface {
	Name() string
	Detect(text string) bool
}

// RuleFunc adapts a predicate to the Rule interface
type RuleFunc struct {
	name   string
	detect func(lower string) bool
}

// NewRuleFunc wraps detect, which receives the lowercased clause text
func NewRuleFunc(name string, detect func(lower string) bool) *RuleFunc {
	return &RuleFunc{name: name, detect: detect}
}

func (r *RuleFunc) Name() string { return r.name }

func (r *RuleFunc) Detect(text string) bool {
	return r.detect(strings.ToLower(text))
}

// KeywordRule is a phrase-based rule declared in configuration
type KeywordRule struct {
	name   string
	anyOf  []string
	allOf  []string
	noneOf []string
}

// NewKeywordRule builds a rule from its configuration entry
func NewKeywordRule(spec model.RuleSpec) *KeywordRule {
	return &KeywordRule{
		name:   spec.Name,
		anyOf:  lowerAll(spec.AnyOf),
		allOf:  lowerAll(spec.AllOf),
		noneOf: lowerAll(spec.NoneOf),
	}
}

func (r *KeywordRule) Name() string { return r.name }

// Detect matches when any AnyOf phrase (or AnyOf is empty), every AllOf
// phrase, and no NoneOf phrase occurs in the text
func (r *KeywordRule) Detect(text string) bool {
	lower := strings.ToLower(text)
	if len(r.anyOf) > 0 && !containsAny(lower, r.anyOf...) {
		return false
	}
	for _, p := range r.allOf {
		if !strings.Contains(lower, p) {
			return false
		}
	}
	return !containsAny(lower, r.noneOf...)
}

// ErrDuplicateRule is returned when a flag name is registered twice
var ErrDuplicateRule = errors.New("duplicate risk rule")

// Registry holds rules in registration order
type Registry struct {
	rules []Rule
	names map[string]bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Register adds a rule. Names must be non-empty and unique.
func (r *Registry) Register(rule Rule) error {
	name := rule.Name()
	if name == "" {
		return fmt.Errorf("register rule: empty name")
	}
	if r.names[name] {
		return fmt.Errorf("register rule %q: %w", name, ErrDuplicateRule)
	}
	r.names[name] = true
	r.rules = append(r.rules, rule)
	return nil
}

// Has reports whether a rule with the given name is registered
func (r *Registry) Has(name string) bool {
	return r.names[name]
}

// Rules returns the rules in registration order
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Names returns flag names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Name()
	}
	return out
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	return len(r.rules)
}

func containsAny(lower string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
