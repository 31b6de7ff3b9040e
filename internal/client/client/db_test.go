package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "state", "studyplanner.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))

	for _, table := range []string{"goose_db_version", "metadata", "secrets", "tasks"} {
		require.True(t, tableExists(t, db, table), "expected table %s after migrations", table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run should be a no-op")
	require.True(t, tableExists(t, db, "tasks"))
}

func TestInitDatabase_TaskConstraints(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, title, deadline, priority, status, created_at)
		VALUES ('t1', 'Essay', 0, 4, 'pending', 0)`)
	require.Error(t, err, "priority outside 1..3 must be rejected")

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, title, deadline, priority, status, created_at)
		VALUES ('t1', 'Essay', 0, 2, 'archived', 0)`)
	require.Error(t, err, "unknown status must be rejected")
}
