package test

import (
	"context"
	"testing"

	"github.com/hrygo/fechador/store"
	"github.com/hrygo/fechador/store/db/sqlite"
)

// NewTestingStore returns a migrated store over a private in-memory database.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	driver, err := sqlite.NewDB(sqlite.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}
	ts := store.New(driver)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		ts.Close()
	})
	return ts
}
