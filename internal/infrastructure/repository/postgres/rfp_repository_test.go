package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

func newRFPRepoWithMock(t *testing.T) (*RFPRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &RFPRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRFPRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRFPNotFound) {
		t.Fatalf("expected ErrRFPNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDUnmarshalsAnalysisPayload(t *testing.T) {
	repo, mock, done := newRFPRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	analysis := []byte(`{"spec_match_score":80,"win_probability":71,"recommendation":"SELECT - High confidence recommendation","agent_status":"completed"}`)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "project_type", "approximate_budget", "due_date",
		"attachment_path", "attachment_text", "status", "agent_status", "demo_status", "analysis",
		"created_at", "updated_at",
	}).AddRow(
		"rfp-1", "user-1", "Cable Supply", "desc", "supply", "50000", nil,
		"", "", "submitted", "completed", "requested", analysis,
		now, now,
	)

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs("rfp-1").
		WillReturnRows(rows)

	rfp, err := repo.GetByID(context.Background(), "rfp-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rfp.Analysis == nil {
		t.Fatal("expected analysis payload")
	}
	if rfp.Analysis.WinProbability != 71 {
		t.Fatalf("WinProbability = %v", rfp.Analysis.WinProbability)
	}
	if !rfp.Budget.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("Budget = %s", rfp.Budget)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisWritesJSONAndStatus(t *testing.T) {
	repo, mock, done := newRFPRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE rfps SET analysis").
		WithArgs("rfp-1", sqlmock.AnyArg(), "completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnalysis(context.Background(), "rfp-1", domain.AnalysisResult{
		MatchScore:  80,
		AgentStatus: domain.AgentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountPendingIncludesFailed(t *testing.T) {
	repo, mock, done := newRFPRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("pending", "failed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountPending(context.Background())
	if err != nil {
		t.Fatalf("CountPending() error = %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
