// Package postgres persists upload metadata and the tracker collections.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
)

// Connect opens and pings a Postgres connection pool.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// Migrate creates the schema when absent. Idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
			file_id     TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			upload_type TEXT NOT NULL DEFAULT '',
			file_path   TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id              TEXT PRIMARY KEY,
			site_code       TEXT NOT NULL,
			task_status     TEXT NOT NULL DEFAULT '',
			kept_monitoring BOOLEAN NOT NULL DEFAULT FALSE,
			recheck_needed  BOOLEAN NOT NULL DEFAULT FALSE,
			assigned_role   TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS tasks_site_code_idx ON tasks (site_code)`,
		`CREATE TABLE IF NOT EXISTS actions (
			id             TEXT PRIMARY KEY,
			site_code      TEXT NOT NULL,
			role           TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT '',
			routed_at      TIMESTAMPTZ,
			completed_date TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS actions_site_code_idx ON actions (site_code)`,
		`CREATE TABLE IF NOT EXISTS approvals (
			id               TEXT PRIMARY KEY,
			site_code        TEXT NOT NULL,
			approval_type    TEXT NOT NULL DEFAULT '',
			assigned_to_role TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL DEFAULT '',
			approved_at      TIMESTAMPTZ,
			completed_date   TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS approvals_site_code_idx ON approvals (site_code)`,
		`CREATE TABLE IF NOT EXISTS offline_sites (
			site_code    TEXT NOT NULL,
			offline_date TIMESTAMPTZ,
			approved     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS offline_sites_site_code_idx ON offline_sites (site_code)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migration failed")
		}
	}
	return nil
}
