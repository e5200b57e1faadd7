package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, name, description, min_budget, max_budget, min_days_before_deadline, allowed_client_types, reject_if_testing_cost_above, is_active, created_at`

func (r *RuleRepository) Create(ctx context.Context, rule *domain.QualificationRule) error {
	typesJSON, err := json.Marshal(clientTypesOrEmpty(rule.AllowedClientTypes))
	if err != nil {
		return fmt.Errorf("marshal client types: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO qualification_rules (`+ruleColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		rule.ID, rule.Name, rule.Description, rule.MinBudget, rule.MaxBudget, rule.MinDaysBeforeDeadline,
		typesJSON, rule.RejectIfTestingCostAbove, rule.IsActive, rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert qualification rule: %w", err)
	}
	return nil
}

func (r *RuleRepository) List(ctx context.Context) ([]domain.QualificationRule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM qualification_rules ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query qualification rules: %w", err)
	}
	defer rows.Close()
	return collectRules(rows)
}

func (r *RuleRepository) ActiveRules(ctx context.Context) ([]domain.QualificationRule, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+ruleColumns+` FROM qualification_rules WHERE is_active ORDER BY created_at
`)
	if err != nil {
		return nil, fmt.Errorf("query active rules: %w", err)
	}
	defer rows.Close()
	return collectRules(rows)
}

func (r *RuleRepository) Update(ctx context.Context, rule *domain.QualificationRule) error {
	typesJSON, err := json.Marshal(clientTypesOrEmpty(rule.AllowedClientTypes))
	if err != nil {
		return fmt.Errorf("marshal client types: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE qualification_rules
SET name = $2, description = $3, min_budget = $4, max_budget = $5, min_days_before_deadline = $6,
	allowed_client_types = $7, reject_if_testing_cost_above = $8, is_active = $9
WHERE id = $1
`,
		rule.ID, rule.Name, rule.Description, rule.MinBudget, rule.MaxBudget, rule.MinDaysBeforeDeadline,
		typesJSON, rule.RejectIfTestingCostAbove, rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update qualification rule: %w", err)
	}
	return requireRowAffected(res, "qualification rule")
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM qualification_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete qualification rule: %w", err)
	}
	return requireRowAffected(res, "qualification rule")
}

func collectRules(rows *sql.Rows) ([]domain.QualificationRule, error) {
	var out []domain.QualificationRule
	for rows.Next() {
		var rule domain.QualificationRule
		var typesRaw []byte
		err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Description, &rule.MinBudget, &rule.MaxBudget,
			&rule.MinDaysBeforeDeadline, &typesRaw, &rule.RejectIfTestingCostAbove,
			&rule.IsActive, &rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan qualification rule: %w", err)
		}
		if err := json.Unmarshal(typesRaw, &rule.AllowedClientTypes); err != nil {
			return nil, fmt.Errorf("unmarshal client types: %w", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qualification rules: %w", err)
	}
	return out, nil
}

func clientTypesOrEmpty(types []string) []string {
	if types == nil {
		return []string{}
	}
	return types
}

func requireRowAffected(res sql.Result, entity string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update "+entity, errors.New("no rows affected"))
	}
	return nil
}
