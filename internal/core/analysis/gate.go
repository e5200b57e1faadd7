package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

const (
	reasonBudgetInvalid   = "Budget not specified or invalid"
	reasonQualified       = "Meets all qualification criteria"
	reasonCheckFailedOpen = "Constraint check failed, proceeding with analysis"
)

// Gate decides up front whether an RFP is worth an LLM round-trip.
//
// The gate fails OPEN: if the rule set cannot be evaluated (provider error),
// the RFP qualifies with a reason noting the check could not complete.
// Blocking a paying pipeline invocation on an internal fault is worse than
// running it.
type Gate struct {
	rules ports.RuleProvider
}

// NewGate builds a gate. rules may be nil, in which case only the built-in
// budget check applies.
func NewGate(rules ports.RuleProvider) *Gate {
	return &Gate{rules: rules}
}

func (g *Gate) Check(ctx context.Context, input domain.AnalysisInput) domain.QualificationVerdict {
	if input.Budget.Sign() <= 0 {
		return domain.QualificationVerdict{Qualified: false, Reason: reasonBudgetInvalid}
	}

	if g.rules != nil {
		rules, err := g.rules.ActiveRules(ctx)
		if err != nil {
			slog.Warn("qualification_rules_unavailable", "error", err)
			return domain.QualificationVerdict{Qualified: true, Reason: reasonCheckFailedOpen}
		}
		// All active rules must pass.
		for _, rule := range rules {
			if verdict, ok := evaluateRule(rule, input); !ok {
				return verdict
			}
		}
	}

	return domain.QualificationVerdict{Qualified: true, Reason: reasonQualified}
}

func evaluateRule(rule domain.QualificationRule, input domain.AnalysisInput) (domain.QualificationVerdict, bool) {
	reject := func(format string, args ...any) (domain.QualificationVerdict, bool) {
		return domain.QualificationVerdict{
			Qualified: false,
			Reason:    fmt.Sprintf("Rule %q: ", rule.Name) + fmt.Sprintf(format, args...),
		}, false
	}

	if rule.MinBudget != nil && input.Budget.LessThan(*rule.MinBudget) {
		return reject("budget below minimum %s", rule.MinBudget.String())
	}
	if rule.MaxBudget != nil && input.Budget.GreaterThan(*rule.MaxBudget) {
		return reject("budget above maximum %s", rule.MaxBudget.String())
	}
	if rule.MinDaysBeforeDeadline != nil && input.DueDate != nil {
		days := int(time.Until(*input.DueDate).Hours() / 24)
		if days < *rule.MinDaysBeforeDeadline {
			return reject("deadline closer than %d days", *rule.MinDaysBeforeDeadline)
		}
	}
	if len(rule.AllowedClientTypes) > 0 && input.ClientType != "" {
		allowed := false
		for _, t := range rule.AllowedClientTypes {
			if t == input.ClientType {
				allowed = true
				break
			}
		}
		if !allowed {
			return reject("client type %q not allowed", input.ClientType)
		}
	}
	// RejectIfTestingCostAbove needs pricing output and cannot be applied
	// before the pipeline runs.
	return domain.QualificationVerdict{}, true
}
