// Package testutil provides fixtures shared by the klaro test suites: a fluent
// ledger state builder, deterministic id generators and in-memory snapshot stores.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/klaro/internal/service"
	"github.com/Veraticus/klaro/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite snapshot store that is closed
// when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// SetupTestDBWithSnapshot creates a test database that already holds data.
func SetupTestDBWithSnapshot(t *testing.T, data []byte) service.SnapshotStore {
	t.Helper()

	store := SetupTestDB(t)
	if err := store.Save(context.Background(), data); err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}
	return store
}
