package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type SweepJobRepository struct {
	db *sql.DB
}

func NewSweepJobRepository(db *sql.DB) *SweepJobRepository {
	return &SweepJobRepository{db: db}
}

const sweepColumns = `id, name, enabled, schedule_type, interval_minutes, min_pending_rfps, last_run, created_at`

func (r *SweepJobRepository) List(ctx context.Context) ([]domain.SweepJob, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sweepColumns+` FROM sweep_jobs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query sweep jobs: %w", err)
	}
	defer rows.Close()
	return collectSweepJobs(rows)
}

func (r *SweepJobRepository) ListEnabled(ctx context.Context) ([]domain.SweepJob, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+sweepColumns+` FROM sweep_jobs WHERE enabled ORDER BY created_at
`)
	if err != nil {
		return nil, fmt.Errorf("query enabled sweep jobs: %w", err)
	}
	defer rows.Close()
	return collectSweepJobs(rows)
}

func (r *SweepJobRepository) Create(ctx context.Context, job *domain.SweepJob) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sweep_jobs (`+sweepColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		job.ID, job.Name, job.Enabled, string(job.ScheduleType), job.IntervalMinutes,
		job.MinPendingRFPs, job.LastRun, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sweep job: %w", err)
	}
	return nil
}

func (r *SweepJobRepository) Update(ctx context.Context, job *domain.SweepJob) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sweep_jobs
SET name = $2, enabled = $3, schedule_type = $4, interval_minutes = $5, min_pending_rfps = $6
WHERE id = $1
`, job.ID, job.Name, job.Enabled, string(job.ScheduleType), job.IntervalMinutes, job.MinPendingRFPs)
	if err != nil {
		return fmt.Errorf("update sweep job: %w", err)
	}
	return requireRowAffected(res, "sweep job")
}

func (r *SweepJobRepository) StampLastRun(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sweep_jobs SET last_run = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("stamp sweep job: %w", err)
	}
	return nil
}

// SeedDefaults inserts the stock interval job when the table is empty.
func (r *SweepJobRepository) SeedDefaults(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sweep_jobs`).Scan(&count); err != nil {
		return fmt.Errorf("count sweep jobs: %w", err)
	}
	if count > 0 {
		return nil
	}

	job := domain.SweepJob{
		ID:              uuid.NewString(),
		Name:            "hourly backlog sweep",
		Enabled:         true,
		ScheduleType:    domain.SweepInterval,
		IntervalMinutes: 60,
		CreatedAt:       time.Now().UTC(),
	}
	return r.Create(ctx, &job)
}

func collectSweepJobs(rows *sql.Rows) ([]domain.SweepJob, error) {
	var out []domain.SweepJob
	for rows.Next() {
		var job domain.SweepJob
		var scheduleType string
		err := rows.Scan(
			&job.ID, &job.Name, &job.Enabled, &scheduleType, &job.IntervalMinutes,
			&job.MinPendingRFPs, &job.LastRun, &job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sweep job: %w", err)
		}
		job.ScheduleType = domain.SweepScheduleType(scheduleType)
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep jobs: %w", err)
	}
	return out, nil
}
