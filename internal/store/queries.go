package store

import (
	"context"
	"database/sql"
	"fmt"
)

const listTestNames = `SELECT name FROM test`

func (q *Queries) ListTestNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryxContext(ctx, listTestNames)
	if err != nil {
		return nil, fmt.Errorf("listing test names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning test name: %w", err)
		}
		names = append(names, name.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating test names: %w", err)
	}
	return names, nil
}

type Account struct {
	Username string `db:"username"`
	UserID   string `db:"user_id"`
}

// Credentials are compared as stored, in plaintext.
const getAccountByCredentials = `
SELECT l.username AS username, u.user_id AS user_id
FROM login AS l, haslogin AS h, users AS u
WHERE l.username = ?
  AND l.password = ?
  AND l.username = h.username
  AND h.user_id = u.user_id`

// GetAccountByCredentials returns sql.ErrNoRows when no login matches both
// username and password.
func (q *Queries) GetAccountByCredentials(ctx context.Context, username, password string) (Account, error) {
	var account Account
	row := q.db.QueryRowxContext(ctx, q.db.Rebind(getAccountByCredentials), username, password)
	if err := row.StructScan(&account); err != nil {
		return Account{}, fmt.Errorf("looking up credentials: %w", err)
	}
	return account, nil
}

const getProfile = `SELECT * FROM users WHERE user_id = ?`

// GetProfile returns every column of the users row, in table order. It
// returns sql.ErrNoRows when no row matches.
func (q *Queries) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	rows, err := q.db.QueryxContext(ctx, q.db.Rebind(getProfile), userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}
		return nil, fmt.Errorf("loading profile %s: %w", userID, sql.ErrNoRows)
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading profile columns: %w", err)
	}
	values, err := rows.SliceScan()
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	profile := &Profile{UserID: userID, Fields: make([]Field, len(columns))}
	for i, column := range columns {
		profile.Fields[i] = Field{Name: column, Value: displayValue(values[i])}
	}
	return profile, nil
}
