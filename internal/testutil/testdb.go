package testutil

import (
	"context"
	"testing"

	"github.com/DripjobsJeremy/workorders/internal/gateway/sqlite"
)

// NewTestStore creates an in-memory store with all migrations applied and
// the fixture work order imported. The store is closed when the test
// completes.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(":memory:", "System")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	if err := store.Import(context.Background(), NewTestWorkOrder()); err != nil {
		t.Fatalf("failed to import fixture: %v", err)
	}
	return store
}
