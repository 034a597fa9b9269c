package risk

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/clauseguard/internal/model"
)

// Flag names with built-in detectors
const (
	FlagPenaltyClause         = "penalty_clause"
	FlagUnilateralTermination = "unilateral_termination"
	FlagAutoRenewal           = "auto_renewal"
	FlagLongLockIn            = "long_lock_in"
	FlagBroadNonCompete       = "broad_non_compete"
	FlagFullIPTransfer        = "full_ip_transfer"
)

// Flag names that are weighted by default but only detected through
// configured keyword rules
const (
	FlagBroadIndemnity           = "broad_indemnity"
	FlagMissingDisputeResolution = "missing_dispute_resolution"
)

// BuiltinFlags lists the built-in flags in evaluation order
var BuiltinFlags = []string{
	FlagPenaltyClause,
	FlagUnilateralTermination,
	FlagAutoRenewal,
	FlagLongLockIn,
	FlagBroadNonCompete,
	FlagFullIPTransfer,
}

var lockInRe = regexp.MustCompile(`(?i)lock[-\s]?in.*?(\d+)\s*(?:months|month)`)

// LockInMonths returns the first lock-in period stated in text, in months.
// A period too large for an int is reported as math.MaxInt.
func LockInMonths(text string) (int, bool) {
	m := lockInRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// BuiltinRules returns the built-in detectors. maxLockInMonths is the
// longest lock-in period that is not flagged.
func BuiltinRules(maxLockInMonths int) []Rule {
	return []Rule{
		NewRuleFunc(FlagPenaltyClause, func(s string) bool {
			return containsAny(s, "penalty", "liquidated damages")
		}),
		NewRuleFunc(FlagUnilateralTermination, func(s string) bool {
			company := strings.Contains(s, "company may terminate") && !strings.Contains(s, "employee may terminate")
			client := strings.Contains(s, "client may terminate") && !strings.Contains(s, "service provider may terminate")
			return company || client
		}),
		NewRuleFunc(FlagAutoRenewal, func(s string) bool {
			return containsAny(s, "auto-renew", "automatically renew", "shall renew")
		}),
		NewRuleFunc(FlagLongLockIn, func(s string) bool {
			months, ok := LockInMonths(s)
			return ok && months > maxLockInMonths
		}),
		NewRuleFunc(FlagBroadNonCompete, func(s string) bool {
			return containsAny(s, "non-compete", "non compete", "shall not engage in any competing business")
		}),
		NewRuleFunc(FlagFullIPTransfer, func(s string) bool {
			return strings.Contains(s, "all intellectual property") && strings.Contains(s, "assigns")
		}),
	}
}

// DefaultRegistry registers the built-in rules followed by one keyword rule
// per cfg.Rules entry. Configured rules may not reuse a built-in name.
func DefaultRegistry(cfg *model.RiskConfig) (*Registry, error) {
	reg := NewRegistry()
	for _, rule := range BuiltinRules(cfg.LockInMaxMonths) {
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}

	for _, spec := range cfg.Rules {
		rule := NewKeywordRule(spec)
		if len(rule.anyOf) == 0 && len(rule.allOf) == 0 {
			return nil, fmt.Errorf("rule %q: %w: no non-blank phrases", spec.Name, model.ErrInvalidRiskConfig)
		}
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
