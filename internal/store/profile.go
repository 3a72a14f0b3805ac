package store

import (
	"fmt"
	"time"
)

// Profile is a users row. The table is owned by the course database, so
// its columns are kept as ordered name/value pairs instead of a fixed struct.
type Profile struct {
	UserID string
	Fields []Field
}

type Field struct {
	Name  string
	Value string
}

// Get returns the value of the named column, or "" if the row has none.
func (p *Profile) Get(name string) string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func displayValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.DateOnly)
	default:
		return fmt.Sprint(v)
	}
}
