package repository

import (
	"database/sql"
	"time"
)

// Trip start dates are stored as calendar days; timestamps as RFC 3339 in UTC.
const dateLayout = "2006-01-02"

// dateValue stores a nil date as SQL NULL.
func dateValue(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}

// scanDate reads a date column back; NULL or unparsable text yields nil.
func scanDate(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	d, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &d
}

// textValue stores "" as SQL NULL.
func textValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
