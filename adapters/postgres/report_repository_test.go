package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoostat/domain/core"
	"zoostat/domain/reference"
	"zoostat/internal/analysis"
	"zoostat/internal/analysis/crossval"
	"zoostat/internal/errors"
	"zoostat/internal/migration"
)

func newSQLiteRepo(t *testing.T) *reportRepository {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migration.NewRunner(nil).Run(context.Background(), db))
	return &reportRepository{db: db}
}

func sampleReport(species string, created time.Time) *analysis.Report {
	return &analysis.Report{
		ID:              core.NewReportID(),
		Name:            "lote",
		Species:         species,
		DatasetHash:     core.NewHash([]byte(species)).String(),
		RowCount:        12,
		CreatedAt:       created,
		CrossValidation: &crossval.Report{Species: species, OverallValid: true},
		Reference:       &reference.Comparison{Species: species, OverallStatus: "good"},
		Warnings:        []string{},
	}
}

func TestReportRepository_SQLiteRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := sampleReport("bovino", base)
	second := sampleReport("suino", base.Add(time.Hour))
	third := sampleReport("bovino", base.Add(2*time.Hour))
	for _, r := range []*analysis.Report{first, second, third} {
		require.NoError(t, repo.Save(ctx, r))
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "good", got.Reference.OverallStatus)
	assert.True(t, got.CrossValidation.OverallValid)

	all, err := repo.List(ctx, analysis.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, "good", all[0].OverallStatus)

	bovine, err := repo.List(ctx, analysis.ReportFilter{Species: "bovino", Limit: 1})
	require.NoError(t, err)
	require.Len(t, bovine, 1)
	assert.Equal(t, third.ID, bovine[0].ID)

	err = repo.Save(ctx, first)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(repo.Delete(ctx, first.ID)))
}

func TestReportRepository_PostgresDuplicate(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReportRepository(sqlx.NewDb(mockDB, "postgres"))

	mock.ExpectExec("INSERT INTO analysis_reports").
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.Save(context.Background(), sampleReport("aves", time.Now()))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_PostgresPlaceholders(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReportRepository(sqlx.NewDb(mockDB, "postgres"))

	rows := sqlmock.NewRows([]string{"id", "name", "species", "subtype", "row_count", "overall_status", "created_at"}).
		AddRow("r1", "lote", "aves", "corte", 40, "attention", time.Now())
	mock.ExpectQuery(`WHERE species = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("aves", maxListLimit, 0).
		WillReturnRows(rows)

	headers, err := repo.List(context.Background(), analysis.ReportFilter{Species: "aves", Limit: 10000, Offset: -5})
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, core.ReportID("r1"), headers[0].ID)
	assert.Equal(t, "attention", headers[0].OverallStatus)

	mock.ExpectQuery(`SELECT payload FROM analysis_reports WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(assert.AnError)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultListLimit, clampLimit(0))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, maxListLimit, clampLimit(maxListLimit+1))
}
