package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QualificationRule is an admin-managed constraint evaluated before the
// pipeline spends an LLM call on an RFP. All active rules must pass.
type QualificationRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	MinBudget *decimal.Decimal `json:"min_budget,omitempty"`
	MaxBudget *decimal.Decimal `json:"max_budget,omitempty"`

	MinDaysBeforeDeadline *int     `json:"min_days_before_deadline,omitempty"`
	AllowedClientTypes    []string `json:"allowed_client_types"`

	RejectIfTestingCostAbove *decimal.Decimal `json:"reject_if_testing_cost_above,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
