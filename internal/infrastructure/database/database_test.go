package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Open(Config{Path: dbPath, WALMode: true, BusyTimeout: 5})
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck // Test cleanup

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
		assert.Equal(t, dbPath, db.Path())
		assert.False(t, db.InMemory())
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

		db, err := Open(Config{Path: dbPath, BusyTimeout: 5})
		require.NoError(t, err)
		defer db.Close() //nolint:errcheck // Test cleanup

		_, err = os.Stat(filepath.Dir(dbPath))
		assert.NoError(t, err)
	})

	t.Run("memory database", func(t *testing.T) {
		for _, path := range []string{"", MemoryPath} {
			db, err := Open(Config{Path: path})
			require.NoError(t, err)
			assert.True(t, db.InMemory())
			assert.Equal(t, MemoryPath, db.Path())
			require.NoError(t, db.Close())
		}
	})
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	ctx := context.Background()

	a, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer a.Close() //nolint:errcheck // Test cleanup

	b, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer b.Close() //nolint:errcheck // Test cleanup

	_, err = a.ExecContext(ctx, "CREATE TABLE only_in_a (id INTEGER)")
	require.NoError(t, err)

	var count int
	require.NoError(t, b.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE name = 'only_in_a'").Scan(&count))
	assert.Zero(t, count)
}

func TestMemoryDatabaseSurvivesIdle(t *testing.T) {
	ctx := context.Background()

	db, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // Test cleanup

	_, err = db.ExecContext(ctx, "CREATE TABLE kept (id INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO kept (id) VALUES (1), (2)")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kept").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestClose(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())
	assert.Error(t, db.HealthCheck(context.Background()))
}

func TestBeginTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.ExecContext(ctx, "CREATE TABLE tx_test (id INTEGER PRIMARY KEY, value TEXT)")
	require.NoError(t, err)

	t.Run("commit", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = tx.ExecContext(ctx, "INSERT INTO tx_test (value) VALUES ('committed')")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM tx_test WHERE value = 'committed'").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = tx.ExecContext(ctx, "INSERT INTO tx_test (value) VALUES ('rolled back')")
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM tx_test WHERE value = 'rolled back'").Scan(&count))
		assert.Zero(t, count)
	})
}

// openTestDB opens a file database in a temp dir and closes it on cleanup.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	return db
}
