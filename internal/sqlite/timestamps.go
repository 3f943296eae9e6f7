package sqlite

import (
	"fmt"
	"time"
)

// TimestampFormat is how timestamps are stored in TEXT columns. It sorts lexicographically.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// DateFormat is how calendar days are stored in TEXT columns.
const DateFormat = time.DateOnly

// FormatTimestamp renders t in UTC with TimestampFormat.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp parses a TimestampFormat value into local time.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.Local(), nil
}
