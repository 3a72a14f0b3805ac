package testutil

import (
	"testing"

	"github.com/campusmart/campusmart/db"
	"github.com/campusmart/campusmart/internal/database"
	"github.com/jmoiron/sqlx"
)

// NewTestDB opens an in-memory SQLite database with the account migrations
// applied. The test table is left to database.Bootstrap.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	sqlDB, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := database.RunMigrations(sqlDB, db.MigrationsFS, "migrations"); err != nil {
		sqlDB.Close()
		t.Fatalf("running migrations: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

// NewBootstrappedDB is NewTestDB plus one bootstrap run.
func NewBootstrappedDB(t *testing.T) *sqlx.DB {
	t.Helper()
	sqlDB := NewTestDB(t)
	if err := database.Bootstrap(t.Context(), sqlDB, database.SQLite); err != nil {
		t.Fatalf("bootstrapping test database: %v", err)
	}
	return sqlDB
}

// CountRows returns the row count of table, for asserting that a request
// did not write.
func CountRows(t *testing.T, sqlDB *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := sqlDB.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
