package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/internal/database"
	"github.com/jmoiron/sqlx"
)

// ConnOpener hands out a dedicated connection. *sqlx.DB satisfies it.
type ConnOpener interface {
	Connx(ctx context.Context) (*sqlx.Conn, error)
}

// DBConn acquires one connection per request and releases it after the
// response. When acquisition fails the request still proceeds, without a
// connection; handlers that need one answer 503. Close errors are dropped.
func DBConn(opener ConnOpener, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := opener.Connx(r.Context())
			if err != nil {
				slog.Error("problem connecting to database",
					"error", err,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				metrics.connFailed()
				next.ServeHTTP(w, r.WithContext(database.WithConn(r.Context(), nil)))
				return
			}
			defer func() { _ = conn.Close() }()

			next.ServeHTTP(w, r.WithContext(database.WithConn(r.Context(), conn)))
		})
	}
}
