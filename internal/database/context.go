package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type contextKey string

const connContextKey contextKey = "db_conn"

// WithConn attaches the request's connection. A nil conn records that
// acquisition failed.
func WithConn(ctx context.Context, conn *sqlx.Conn) context.Context {
	return context.WithValue(ctx, connContextKey, conn)
}

func ConnFromContext(ctx context.Context) (*sqlx.Conn, bool) {
	conn, ok := ctx.Value(connContextKey).(*sqlx.Conn)
	return conn, ok && conn != nil
}
