package testhelpers

import (
	"context"
	"testing"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/sqlite"
)

// NewDatabase opens a migrated in-memory database that is closed when the test ends.
func NewDatabase(t testing.TB) *sqlite.Database {
	t.Helper()
	db, err := sqlite.NewDatabase(t.Context(), sqlite.Config{URL: ":memory:", OptimizeInterval: 0}, NewTestLogger(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return db
}

// NewUserContext inserts a user and returns a context bound to it.
func NewUserContext(t testing.TB, db *sqlite.Database) context.Context {
	t.Helper()
	var userID int
	err := db.ReadWrite.QueryRowContext(t.Context(), "INSERT INTO users DEFAULT VALUES RETURNING id").Scan(&userID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return contexthelpers.WithUserID(t.Context(), userID)
}
