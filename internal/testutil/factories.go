package testutil

import (
	"database/sql"
	"strconv"
	"testing"

	"github.com/campusmart/campusmart/internal/ulid"
	"github.com/jmoiron/sqlx"
)

type TestAccount struct {
	UserID   string
	Username string
	Password string
	Name     string
}

type accountDefaults struct {
	username string
	password string
	name     string
	email    string
	linked   bool
}

type AccountOption func(*accountDefaults)

func WithUsername(username string) AccountOption {
	return func(d *accountDefaults) { d.username = username }
}

func WithPassword(password string) AccountOption {
	return func(d *accountDefaults) { d.password = password }
}

func WithName(name string) AccountOption {
	return func(d *accountDefaults) { d.name = name }
}

func WithEmail(email string) AccountOption {
	return func(d *accountDefaults) { d.email = email }
}

// WithoutHasLogin leaves the login row unlinked from any profile.
func WithoutHasLogin() AccountOption {
	return func(d *accountDefaults) { d.linked = false }
}

// CreateTestAccount inserts a users row, a login row and the haslogin link
// between them.
func CreateTestAccount(t *testing.T, sqlDB *sqlx.DB, opts ...AccountOption) TestAccount {
	t.Helper()

	defaults := accountDefaults{
		username: "user-" + ulid.New(),
		password: "testpassword123",
		name:     "Test User",
		linked:   true,
	}
	for _, opt := range opts {
		opt(&defaults)
	}

	email := sql.NullString{String: defaults.email, Valid: defaults.email != ""}
	res, err := sqlDB.Exec("INSERT INTO users (name, email) VALUES (?, ?)", defaults.name, email)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading test user id: %v", err)
	}

	if _, err := sqlDB.Exec("INSERT INTO login (username, password) VALUES (?, ?)", defaults.username, defaults.password); err != nil {
		t.Fatalf("creating test login: %v", err)
	}

	if defaults.linked {
		if _, err := sqlDB.Exec("INSERT INTO haslogin (username, user_id) VALUES (?, ?)", defaults.username, userID); err != nil {
			t.Fatalf("linking test login: %v", err)
		}
	}

	return TestAccount{
		UserID:   strconv.FormatInt(userID, 10),
		Username: defaults.username,
		Password: defaults.password,
		Name:     defaults.name,
	}
}

// DeleteTestUser removes a users row and its link, leaving the login row.
func DeleteTestUser(t *testing.T, sqlDB *sqlx.DB, userID string) {
	t.Helper()
	if _, err := sqlDB.Exec("DELETE FROM haslogin WHERE user_id = ?", userID); err != nil {
		t.Fatalf("unlinking test user: %v", err)
	}
	if _, err := sqlDB.Exec("DELETE FROM users WHERE user_id = ?", userID); err != nil {
		t.Fatalf("deleting test user: %v", err)
	}
}
