package database

import (
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(string(SQLite), sqlx.QUESTION)
}

// ParseURL picks the driver for a connection string. postgres:// and
// postgresql:// URLs go to lib/pq; anything else is treated as a SQLite path.
func ParseURL(databaseURL string) (Dialect, string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return Postgres, databaseURL
	}
	return SQLite, strings.TrimPrefix(databaseURL, "sqlite://")
}

// SQLiteFilePath returns the file a SQLite DSN points at, without any file:
// prefix or query parameters. In-memory databases return "".
func SQLiteFilePath(dsn string) string {
	p, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if p == "" || p == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}
	return p
}

// DialectOf reports which dialect an open handle speaks.
func DialectOf(db *sqlx.DB) Dialect {
	return Dialect(db.DriverName())
}

func Open(databaseURL string) (*sqlx.DB, error) {
	dialect, dsn := ParseURL(databaseURL)

	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if dialect == SQLite {
		// sqlite only supports a single writer at a time
		db.SetMaxOpenConns(1)

		pragmas := []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		}
		if SQLiteFilePath(dsn) != "" {
			pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("executing %s: %w", pragma, err)
			}
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func RunMigrations(db *sqlx.DB, migrationsFS embed.FS, dir string) error {
	gooseDialect := "sqlite3"
	if DialectOf(db) == Postgres {
		gooseDialect = "postgres"
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db.DB, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
