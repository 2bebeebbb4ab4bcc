package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/internal/history/historytest"
	"github.com/askiada/go-ssdt-lifecycle/internal/history/sqlstore"
)

func TestStoreSqlite(t *testing.T) {
	t.Parallel()

	store, err := sqlstore.Open(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	historytest.TestStore(t, store)

	// Migrating twice keeps the data.
	require.NoError(t, store.Migrate(context.Background()))
	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestNewUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := sqlstore.New(nil, "oracle")
	assert.ErrorIs(t, err, sqlstore.ErrUnknownDriver)
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	cfg := sqlstore.TableConfig{RunsTable: "runs", StagesTable: "stages"}
	assert.Contains(t, sqlstore.MigrationUp(cfg), "CREATE TABLE IF NOT EXISTS runs (")
	assert.Contains(t, sqlstore.MigrationUp(cfg), "REFERENCES runs(id)")
	assert.Contains(t, sqlstore.MigrationDown(cfg), "DROP TABLE IF EXISTS stages;")
}
