package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type RFPRepository struct {
	db *sql.DB
}

func NewRFPRepository(db *sql.DB) *RFPRepository {
	return &RFPRepository{db: db}
}

const rfpColumns = `id, user_id, title, description, project_type, approximate_budget, due_date, attachment_path, attachment_text, status, agent_status, demo_status, analysis, created_at, updated_at`

func (r *RFPRepository) Create(ctx context.Context, rfp *domain.RFP) error {
	analysisJSON, err := marshalAnalysis(rfp.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO rfps (`+rfpColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		rfp.ID, rfp.UserID, rfp.Title, rfp.Description, rfp.ProjectType, rfp.Budget, rfp.DueDate,
		rfp.AttachmentPath, rfp.AttachmentText, string(rfp.Status), string(rfp.AgentStatus), string(rfp.DemoStatus),
		analysisJSON, rfp.CreatedAt, rfp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rfp: %w", err)
	}
	return nil
}

func (r *RFPRepository) GetByID(ctx context.Context, id string) (*domain.RFP, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rfpColumns+` FROM rfps WHERE id = $1`, id)
	return scanRFP(row)
}

func (r *RFPRepository) GetOwned(ctx context.Context, id, userID string) (*domain.RFP, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rfpColumns+` FROM rfps WHERE id = $1 AND user_id = $2`, id, userID)
	return scanRFP(row)
}

func (r *RFPRepository) ListByUser(ctx context.Context, userID string) ([]domain.RFP, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+rfpColumns+` FROM rfps WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rfps by user: %w", err)
	}
	defer rows.Close()
	return collectRFPs(rows)
}

func (r *RFPRepository) ListAll(ctx context.Context) ([]domain.RFP, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+rfpColumns+` FROM rfps ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query rfps: %w", err)
	}
	defer rows.Close()
	return collectRFPs(rows)
}

func (r *RFPRepository) ListPending(ctx context.Context) ([]domain.RFP, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+rfpColumns+` FROM rfps
WHERE agent_status IN ($1, $2)
ORDER BY created_at
`, string(domain.AgentStatusPending), string(domain.AgentStatusFailed))
	if err != nil {
		return nil, fmt.Errorf("query pending rfps: %w", err)
	}
	defer rows.Close()
	return collectRFPs(rows)
}

func (r *RFPRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM rfps WHERE agent_status IN ($1, $2)
`, string(domain.AgentStatusPending), string(domain.AgentStatusFailed)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending rfps: %w", err)
	}
	return count, nil
}

func (r *RFPRepository) Update(ctx context.Context, rfp *domain.RFP) error {
	analysisJSON, err := marshalAnalysis(rfp.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE rfps
SET title = $2, description = $3, project_type = $4, approximate_budget = $5, due_date = $6,
	attachment_path = $7, attachment_text = $8, status = $9, agent_status = $10, demo_status = $11,
	analysis = $12, updated_at = $13
WHERE id = $1
`,
		rfp.ID, rfp.Title, rfp.Description, rfp.ProjectType, rfp.Budget, rfp.DueDate,
		rfp.AttachmentPath, rfp.AttachmentText, string(rfp.Status), string(rfp.AgentStatus), string(rfp.DemoStatus),
		analysisJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update rfp: %w", err)
	}
	return nil
}

func (r *RFPRepository) UpdateAgentStatus(ctx context.Context, id string, status domain.AgentStatus) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE rfps SET agent_status = $2, updated_at = $3 WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update agent status: %w", err)
	}
	return nil
}

func (r *RFPRepository) UpdateDemoStatus(ctx context.Context, id string, status domain.DemoStatus) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE rfps SET demo_status = $2, updated_at = $3 WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update demo status: %w", err)
	}
	return nil
}

func (r *RFPRepository) SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult) error {
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE rfps SET analysis = $2, agent_status = $3, updated_at = $4 WHERE id = $1
`, id, analysisJSON, string(result.AgentStatus), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRFP(row rowScanner) (*domain.RFP, error) {
	var rfp domain.RFP
	var analysisRaw []byte
	var status, agentStatus, demoStatus string

	err := row.Scan(
		&rfp.ID, &rfp.UserID, &rfp.Title, &rfp.Description, &rfp.ProjectType, &rfp.Budget, &rfp.DueDate,
		&rfp.AttachmentPath, &rfp.AttachmentText, &status, &agentStatus, &demoStatus,
		&analysisRaw, &rfp.CreatedAt, &rfp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRFPNotFound
		}
		return nil, fmt.Errorf("scan rfp: %w", err)
	}

	if len(analysisRaw) > 0 {
		var analysis domain.AnalysisResult
		if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		rfp.Analysis = &analysis
	}
	rfp.Status = domain.RFPStatus(status)
	rfp.AgentStatus = domain.AgentStatus(agentStatus)
	rfp.DemoStatus = domain.DemoStatus(demoStatus)
	return &rfp, nil
}

func collectRFPs(rows *sql.Rows) ([]domain.RFP, error) {
	var out []domain.RFP
	for rows.Next() {
		rfp, err := scanRFP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rfp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rfps: %w", err)
	}
	return out, nil
}

func marshalAnalysis(analysis *domain.AnalysisResult) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return raw, nil
}
