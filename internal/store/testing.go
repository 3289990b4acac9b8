package store

import (
	"database/sql"
	"testing"
)

// NewTestStore creates a migrated Store backed by an in-memory database.
// This is only intended for use in tests.
func NewTestStore(t testing.TB) *Store {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Each pooled connection would otherwise get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	s := newStore(sqlDB)
	t.Cleanup(func() { s.Close() })
	return s
}
