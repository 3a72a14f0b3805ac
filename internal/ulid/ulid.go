// Package ulid hands out sortable identifiers used to correlate log lines
// belonging to one request.
package ulid

import (
	"github.com/oklog/ulid/v2"
)

// New returns a ULID that sorts after every ID previously returned in the same
// millisecond.
func New() string {
	return ulid.Make().String()
}
