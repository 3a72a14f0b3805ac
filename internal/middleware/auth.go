package middleware

import (
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/crypto"
)

// LoadSession reads the session cookie, verifies its signature and injects
// the Session into context. It never rejects a request; a missing or forged
// cookie leaves the request anonymous.
func LoadSession(signer *crypto.HMACHasher, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieValue, err := auth.GetSessionCookie(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := auth.DecodeSession(cookieValue, signer)
			if err != nil {
				slog.Debug("invalid session cookie", "error", err, "request_id", GetRequestID(r.Context()))
				auth.ClearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithSession(r.Context(), &session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous visitors to /login.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.IsLoggedIn(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}
