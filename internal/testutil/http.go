package testutil

import (
	"net/http"
	"testing"

	"github.com/campusmart/campusmart/internal/database"
	"github.com/jmoiron/sqlx"
)

// WithConn attaches a connection from sqlDB to req the way the DBConn
// middleware does. The connection is closed when the test ends.
func WithConn(t *testing.T, sqlDB *sqlx.DB, req *http.Request) *http.Request {
	t.Helper()
	conn, err := sqlDB.Connx(req.Context())
	if err != nil {
		t.Fatalf("acquiring connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return req.WithContext(database.WithConn(req.Context(), conn))
}

// FindCookie returns the named cookie set on a response, or nil.
func FindCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
