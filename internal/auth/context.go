package auth

import "context"

type contextKey string

const sessionContextKey contextKey = "auth_session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func GetSession(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return s
	}
	return nil
}

// IsLoggedIn mirrors the "loggedin" key check: a session without it is
// anonymous regardless of its other fields.
func IsLoggedIn(ctx context.Context) bool {
	s := GetSession(ctx)
	return s != nil && s.LoggedIn
}

// CurrentUsername returns the logged-in username, or "".
func CurrentUsername(ctx context.Context) string {
	if !IsLoggedIn(ctx) {
		return ""
	}
	return GetSession(ctx).Username
}
