package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/codr1/matchday/internal/db"
	"github.com/codr1/matchday/internal/schemaguard"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// NewGuardedTestDB is NewTestDB with every built-in schema tightening
// enforced, matching a server that has completed startup.
func NewGuardedTestDB(t *testing.T) *db.DB {
	t.Helper()

	database := NewTestDB(t)
	reports, err := schemaguard.New(database).Apply(context.Background(), schemaguard.ApplyOptions{})
	if err != nil {
		t.Fatalf("apply schema tightenings: %v", err)
	}
	for _, report := range reports {
		if !report.Enforced {
			t.Fatalf("tightening %s not enforced on empty db", report.Tightening)
		}
	}
	return database
}
