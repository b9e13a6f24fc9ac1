package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"zoostat/domain/core"
	"zoostat/internal/analysis"
	"zoostat/internal/errors"
	"zoostat/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// reportRepository implements ports.ReportRepository over sqlx. Queries are written
// with '?' placeholders and rebound for the driver, so the same code serves
// PostgreSQL and SQLite.
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

type reportRow struct {
	analysis.ReportHeader
	DatasetHash string `db:"dataset_hash"`
	Payload     []byte `db:"payload"`
}

// Save inserts a report; a duplicate ID is reported as INVALID_INPUT
func (r *reportRepository) Save(ctx context.Context, report *analysis.Report) error {
	if report == nil || report.ID == "" {
		return errors.InvalidInput("report without id")
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	row := reportRow{ReportHeader: report.Header(), DatasetHash: report.DatasetHash, Payload: payload}
	row.CreatedAt = row.CreatedAt.UTC()

	query := `INSERT INTO analysis_reports (
		id, name, species, subtype, dataset_hash, row_count, overall_status, payload, created_at
	) VALUES (
		:id, :name, :species, :subtype, :dataset_hash, :row_count, :overall_status, :payload, :created_at
	)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return errors.InvalidInput(fmt.Sprintf("report %s already exists", report.ID))
		}
		return errors.DatabaseError("failed to save report", err)
	}
	return nil
}

// GetByID loads the full report
func (r *reportRepository) GetByID(ctx context.Context, id core.ReportID) (*analysis.Report, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, r.db.Rebind(`SELECT payload FROM analysis_reports WHERE id = ?`), string(id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound(fmt.Sprintf("report %s", id))
		}
		return nil, errors.DatabaseError("failed to get report", err)
	}

	var report analysis.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// List returns report headers, newest first
func (r *reportRepository) List(ctx context.Context, filter analysis.ReportFilter) ([]analysis.ReportHeader, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Species != "" {
		where = append(where, "species = ?")
		args = append(args, filter.Species)
	}

	query := `SELECT id, name, species, subtype, row_count, overall_status, created_at FROM analysis_reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	headers := []analysis.ReportHeader{}
	if err := r.db.SelectContext(ctx, &headers, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("failed to list reports", err)
	}
	return headers, nil
}

// Delete removes a report
func (r *reportRepository) Delete(ctx context.Context, id core.ReportID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM analysis_reports WHERE id = ?`), string(id))
	if err != nil {
		return errors.DatabaseError("failed to delete report", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to delete report", err)
	}
	if n == 0 {
		return errors.NotFound(fmt.Sprintf("report %s", id))
	}
	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return true
	}
	var liteErr sqlite3.Error
	if stderrors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
