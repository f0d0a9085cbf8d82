package testutil

import (
	"testing"

	"journal-coach/internal/database"
	"journal-coach/internal/journal"
)

// NewTestStore creates an in-memory SQLite store with the schema applied.
// The store is closed when the test completes.
func NewTestStore(t *testing.T, clock journal.Clock) *database.SQLiteStore {
	t.Helper()

	store, err := database.NewSQLiteStore(database.MemoryPath, clock)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.MigrateUp(); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return store
}
