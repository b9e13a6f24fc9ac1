package migration

import (
	"context"
	"fmt"

	"zoostat/internal"
	"zoostat/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// step is one schema change. SQLite gets its own statement where the dialects differ.
type step struct {
	version  string
	postgres string
	sqlite   string
}

func (s step) statement(driver string) string {
	if driver == "sqlite3" && s.sqlite != "" {
		return s.sqlite
	}
	return s.postgres
}

var steps = []step{
	{
		version: "001_analysis_reports",
		postgres: `
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			species VARCHAR(32) NOT NULL,
			subtype VARCHAR(32) NOT NULL DEFAULT '',
			dataset_hash CHAR(64) NOT NULL,
			row_count INTEGER NOT NULL,
			overall_status VARCHAR(32) NOT NULL DEFAULT '',
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		sqlite: `
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			subtype TEXT NOT NULL DEFAULT '',
			dataset_hash TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			overall_status TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		version:  "002_analysis_reports_species_idx",
		postgres: "CREATE INDEX IF NOT EXISTS idx_reports_species_created ON analysis_reports(species, created_at DESC)",
	},
	{
		version:  "003_analysis_reports_hash_idx",
		postgres: "CREATE INDEX IF NOT EXISTS idx_reports_dataset_hash ON analysis_reports(dataset_hash)",
	},
}

// MigrationRunner applies the schema steps once each, recording them in schema_migrations
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	return &MigrationRunner{
		version: steps[len(steps)-1].version,
		logger:  logger.OrNop(),
	}
}

// Version returns the latest schema version this runner knows
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all pending migrations in order. It is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.DatabaseError("failed to create schema_migrations table", err)
	}

	applied, err := r.Applied(ctx, db)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, s := range steps {
		if done[s.version] {
			continue
		}
		if err := r.apply(ctx, db, s); err != nil {
			return errors.Wrapf(err, "migration %s failed", s.version)
		}
		r.logger.Info("applied migration %s", s.version)
	}
	return nil
}

// Applied lists the recorded versions in order
func (r *MigrationRunner) Applied(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
		return nil, errors.DatabaseError("failed to read applied migrations", err)
	}
	return versions, nil
}

func (r *MigrationRunner) apply(ctx context.Context, db *sqlx.DB, s step) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin migration", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.statement(db.DriverName())); err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to execute %s", s.version), err)
	}
	if _, err := tx.ExecContext(ctx, db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), s.version); err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to record %s", s.version), err)
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit migration", err)
	}
	return nil
}
