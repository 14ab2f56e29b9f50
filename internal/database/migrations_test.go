package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns(t *testing.T, db *DB, table string) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), `SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close() //nolint:errcheck // test cleanup

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestSchema(t *testing.T) {
	db := newDB(t)

	version, err := db.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, 1)

	assert.Subset(t, columns(t, db, "analysis_runs"),
		[]string{"id", "source", "platform", "operator", "line_count", "started_at", "completed_at", "created_at"})
	assert.Subset(t, columns(t, db, "analysis_findings"),
		[]string{"id", "run_id", "position", "title", "severity", "category", "diagnosis", "evidence", "pro_tip", "remediation", "confidence"})
	assert.ElementsMatch(t, []string{"version", "name", "applied_at"}, columns(t, db, "schema_migrations"))

	for _, idx := range []string{"idx_runs_started", "idx_runs_operator", "idx_findings_run", "idx_findings_severity"} {
		var n int
		err := db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, idx).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, idx)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	before, err := db.SchemaVersion(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx))

	after, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	pending, err := db.PendingMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSchemaConstraints(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO analysis_runs (id) VALUES ('no-start')`)
	require.Error(t, err, "started_at is required")

	_, err = db.ExecContext(ctx, `INSERT INTO analysis_runs (id, started_at) VALUES (?, ?)`, "run-1", time.Now().UTC())
	require.NoError(t, err)

	const insert = `INSERT INTO analysis_findings (run_id, position, title, severity, category) VALUES (?, 0, ?, ?, ?)`
	tests := []struct {
		name     string
		runID    string
		severity string
		category string
		wantErr  bool
	}{
		{"valid", "run-1", "critical", "JOIN_FAILURE", false},
		{"unknown severity", "run-1", "HIGH", "GENERAL", true},
		{"unknown category", "run-1", "warning", "NOISE", true},
		{"missing run", "missing-run", "info", "GENERAL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecContext(ctx, insert, tt.runID, tt.name, tt.severity, tt.category)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS analysis_runs")
	assert.IsIncreasing(t, versions(migrations))
}

func versions(ms []Migration) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.Version
	}
	return out
}
