package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/routine/internal/db"
	"github.com/alexanderramin/routine/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore returns a SQLite-backed KVStore on a fresh in-memory database.
func NewTestStore(t *testing.T) *repository.SQLiteKVStore {
	t.Helper()
	return repository.NewSQLiteKVStore(NewTestDB(t))
}
