// Package store holds the typed queries the handlers run against the
// per-request connection.
package store

import (
	"context"

	"github.com/campusmart/campusmart/internal/database"
	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by *sqlx.DB, *sqlx.Tx and *sqlx.Conn.
type DBTX interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	Rebind(query string) string
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// FromContext binds queries to the connection acquired for the current
// request. It reports false when acquisition failed.
func FromContext(ctx context.Context) (*Queries, bool) {
	conn, ok := database.ConnFromContext(ctx)
	if !ok {
		return nil, false
	}
	return New(conn), true
}
