package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var createTestTable = map[Dialect]string{
	SQLite:   `CREATE TABLE IF NOT EXISTS test (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`,
	Postgres: `CREATE TABLE IF NOT EXISTS test (id serial, name text)`,
}

const seedTestNames = `INSERT INTO test(name) VALUES ('grace hopper'), ('alan turing'), ('ada lovelace')`

// Bootstrap creates the scratch test table and seeds it. It runs on every
// start and is not idempotent: each call appends the three seed rows again.
func Bootstrap(ctx context.Context, db sqlx.ExecerContext, dialect Dialect) error {
	create, ok := createTestTable[dialect]
	if !ok {
		return fmt.Errorf("bootstrap: unsupported dialect %q", dialect)
	}
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating test table: %w", err)
	}
	if _, err := db.ExecContext(ctx, seedTestNames); err != nil {
		return fmt.Errorf("seeding test table: %w", err)
	}
	return nil
}
