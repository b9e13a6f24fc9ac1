package migration

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	runner := NewRunner(nil)
	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, runner.Run(ctx, db))

	applied, err := runner.Applied(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, len(steps))
	assert.Equal(t, runner.Version(), applied[len(applied)-1])

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM analysis_reports"))
	assert.Equal(t, 0, n)
}

func TestStepStatementPerDriver(t *testing.T) {
	assert.Contains(t, steps[0].statement("postgres"), "JSONB")
	assert.NotContains(t, steps[0].statement("sqlite3"), "JSONB")
	assert.Equal(t, steps[1].postgres, steps[1].statement("sqlite3"))
}
