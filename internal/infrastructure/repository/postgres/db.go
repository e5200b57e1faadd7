package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates all tables the platform needs. Safe to run from both
// binaries concurrently.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS rfps (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	approximate_budget NUMERIC NOT NULL DEFAULT 0,
	due_date TIMESTAMPTZ,
	attachment_path TEXT NOT NULL DEFAULT '',
	attachment_text TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	agent_status TEXT NOT NULL,
	demo_status TEXT NOT NULL,
	analysis JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rfps_user_id ON rfps(user_id);
CREATE INDEX IF NOT EXISTS idx_rfps_agent_status ON rfps(agent_status);
CREATE INDEX IF NOT EXISTS idx_rfps_created_at ON rfps(created_at DESC);

CREATE TABLE IF NOT EXISTS qualification_rules (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	min_budget NUMERIC,
	max_budget NUMERIC,
	min_days_before_deadline INT,
	allowed_client_types JSONB NOT NULL DEFAULT '[]'::jsonb,
	reject_if_testing_cost_above NUMERIC,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS product_prices (
	sku_id TEXT PRIMARY KEY,
	sku_name TEXT NOT NULL,
	base_unit_price NUMERIC NOT NULL,
	currency TEXT NOT NULL DEFAULT 'USD'
);

CREATE TABLE IF NOT EXISTS test_prices (
	test_code TEXT PRIMARY KEY,
	test_name TEXT NOT NULL,
	test_price NUMERIC NOT NULL,
	currency TEXT NOT NULL DEFAULT 'USD'
);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	rfp_id TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS demo_centers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	location TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	available_slots JSONB NOT NULL DEFAULT '[]'::jsonb,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS demo_requests (
	id TEXT PRIMARY KEY,
	rfp_id TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	preferred_location TEXT NOT NULL DEFAULT '',
	preferred_date TIMESTAMPTZ,
	special_requirements TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	scheduled_center_id TEXT NOT NULL DEFAULT '',
	scheduled_datetime TIMESTAMPTZ,
	admin_notes TEXT NOT NULL DEFAULT '',
	client_feedback TEXT NOT NULL DEFAULT '',
	final_decision TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_demo_requests_rfp_id ON demo_requests(rfp_id);

CREATE TABLE IF NOT EXISTS sweep_jobs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT TRUE,
	schedule_type TEXT NOT NULL,
	interval_minutes INT NOT NULL DEFAULT 0,
	min_pending_rfps INT NOT NULL DEFAULT 0,
	last_run TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
