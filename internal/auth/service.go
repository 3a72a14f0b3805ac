package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campusmart/campusmart/internal/apperror"
	"github.com/campusmart/campusmart/internal/store"
)

const (
	msgLoginFailed  = "Incorrect username/password!"
	msgLoginSuccess = "Logged in successfully!"
	msgLoggedIn     = "You have already logged in."
	msgAnonymous    = "You haven't logged in."
)

// Login checks the submitted pair against the login/haslogin/users join and
// returns the session to store on a match. A mismatch is an Unauthorized
// error carrying the message shown on the login page.
func Login(ctx context.Context, q *store.Queries, username, password string) (*Session, *apperror.Error) {
	account, err := q.GetAccountByCredentials(ctx, username, password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Unauthorized(msgLoginFailed)
	}
	if err != nil {
		return nil, apperror.Internal("Failed to check credentials", err)
	}

	return &Session{
		LoggedIn: true,
		ID:       account.UserID,
		Username: account.Username,
	}, nil
}
