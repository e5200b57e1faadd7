package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type DemoRepository struct {
	db *sql.DB
}

func NewDemoRepository(db *sql.DB) *DemoRepository {
	return &DemoRepository{db: db}
}

const centerColumns = `id, name, location, address, contact_phone, contact_email, available_slots, is_active, created_at`
const requestColumns = `id, rfp_id, user_id, preferred_location, preferred_date, special_requirements, status, scheduled_center_id, scheduled_datetime, admin_notes, client_feedback, final_decision, created_at`

func (r *DemoRepository) ListCenters(ctx context.Context, activeOnly bool) ([]domain.DemoCenter, error) {
	query := `SELECT ` + centerColumns + ` FROM demo_centers ORDER BY created_at`
	if activeOnly {
		query = `SELECT ` + centerColumns + ` FROM demo_centers WHERE is_active ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query demo centers: %w", err)
	}
	defer rows.Close()

	var out []domain.DemoCenter
	for rows.Next() {
		center, err := scanCenter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *center)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demo centers: %w", err)
	}
	return out, nil
}

func (r *DemoRepository) GetCenter(ctx context.Context, id string) (*domain.DemoCenter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+centerColumns+` FROM demo_centers WHERE id = $1`, id)
	return scanCenter(row)
}

func (r *DemoRepository) CreateCenter(ctx context.Context, center *domain.DemoCenter) error {
	slots := center.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("marshal slots: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO demo_centers (`+centerColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		center.ID, center.Name, center.Location, center.Address, center.ContactPhone, center.ContactEmail,
		slotsJSON, center.IsActive, center.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert demo center: %w", err)
	}
	return nil
}

func (r *DemoRepository) CountCenters(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM demo_centers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count demo centers: %w", err)
	}
	return count, nil
}

func (r *DemoRepository) FirstActiveCenter(ctx context.Context) (*domain.DemoCenter, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+centerColumns+` FROM demo_centers WHERE is_active ORDER BY created_at LIMIT 1
`)
	return scanCenter(row)
}

// SeedCenters inserts a starter center set when the table is empty, so the
// demo workflow works out of the box.
func (r *DemoRepository) SeedCenters(ctx context.Context) error {
	count, err := r.CountCenters(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	seeds := []domain.DemoCenter{
		{
			ID:           uuid.NewString(),
			Name:         "Main Demo Center",
			Location:     "Headquarters",
			Address:      "1 Industrial Way",
			ContactEmail: "demos@example.com",
			AvailableSlots: []string{
				now.AddDate(0, 0, 7).Format("2006-01-02") + " 10:00",
				now.AddDate(0, 0, 7).Format("2006-01-02") + " 14:00",
				now.AddDate(0, 0, 14).Format("2006-01-02") + " 10:00",
			},
			IsActive:  true,
			CreatedAt: now,
		},
	}
	for i := range seeds {
		if err := r.CreateCenter(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *DemoRepository) CreateRequest(ctx context.Context, req *domain.DemoRequest) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO demo_requests (`+requestColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		req.ID, req.RFPID, req.UserID, req.PreferredLocation, req.PreferredDate, req.SpecialRequirements,
		string(req.Status), req.ScheduledCenterID, req.ScheduledAt, req.AdminNotes, req.ClientFeedback,
		req.FinalDecision, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert demo request: %w", err)
	}
	return nil
}

func (r *DemoRepository) GetRequest(ctx context.Context, id string) (*domain.DemoRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM demo_requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (r *DemoRepository) GetRequestByRFP(ctx context.Context, rfpID string) (*domain.DemoRequest, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+requestColumns+` FROM demo_requests WHERE rfp_id = $1 ORDER BY created_at LIMIT 1
`, rfpID)
	return scanRequest(row)
}

func (r *DemoRepository) ListRequestsByUser(ctx context.Context, userID string) ([]domain.DemoRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+requestColumns+` FROM demo_requests WHERE user_id = $1 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query demo requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *DemoRepository) ListRequests(ctx context.Context) ([]domain.DemoRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestColumns+` FROM demo_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query demo requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *DemoRepository) UpdateRequest(ctx context.Context, req *domain.DemoRequest) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE demo_requests
SET preferred_location = $2, preferred_date = $3, special_requirements = $4, status = $5,
	scheduled_center_id = $6, scheduled_datetime = $7, admin_notes = $8, client_feedback = $9, final_decision = $10
WHERE id = $1
`,
		req.ID, req.PreferredLocation, req.PreferredDate, req.SpecialRequirements, string(req.Status),
		req.ScheduledCenterID, req.ScheduledAt, req.AdminNotes, req.ClientFeedback, req.FinalDecision,
	)
	if err != nil {
		return fmt.Errorf("update demo request: %w", err)
	}
	return requireRowAffected(res, "demo request")
}

func scanCenter(row rowScanner) (*domain.DemoCenter, error) {
	var center domain.DemoCenter
	var slotsRaw []byte
	err := row.Scan(
		&center.ID, &center.Name, &center.Location, &center.Address, &center.ContactPhone,
		&center.ContactEmail, &slotsRaw, &center.IsActive, &center.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan demo center: %w", err)
	}
	if err := json.Unmarshal(slotsRaw, &center.AvailableSlots); err != nil {
		return nil, fmt.Errorf("unmarshal slots: %w", err)
	}
	return &center, nil
}

func scanRequest(row rowScanner) (*domain.DemoRequest, error) {
	var req domain.DemoRequest
	var status string
	err := row.Scan(
		&req.ID, &req.RFPID, &req.UserID, &req.PreferredLocation, &req.PreferredDate,
		&req.SpecialRequirements, &status, &req.ScheduledCenterID, &req.ScheduledAt,
		&req.AdminNotes, &req.ClientFeedback, &req.FinalDecision, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan demo request: %w", err)
	}
	req.Status = domain.DemoRequestStatus(status)
	return &req, nil
}

func collectRequests(rows *sql.Rows) ([]domain.DemoRequest, error) {
	var out []domain.DemoRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demo requests: %w", err)
	}
	return out, nil
}
