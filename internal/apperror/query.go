package apperror

import (
	"database/sql"
	"errors"
)

// FromQuery classifies a failed query. A missing row is reported as NotFound
// for the given entity; everything else is an internal error.
func FromQuery(entity string, err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(entity, err)
	}
	return Internal("Failed to load "+entity, err)
}
