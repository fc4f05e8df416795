package database

import (
	"fmt"
	"time"
)

// TimestampFormatter renders timestamp-with-timezone values as
// ISO-8601 strings in the application's configured zone.
//
// The session timezone pinned in New keeps the driver consistent; this
// formatter covers values that still need to cross an API boundary as
// strings (log rows, notification payloads).
type TimestampFormatter struct {
	loc *time.Location
}

// NewTimestampFormatter resolves the named zone (IANA name such as
// "America/Chicago", or "UTC").
func NewTimestampFormatter(timezone string) (*TimestampFormatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &TimestampFormatter{loc: loc}, nil
}

// Format returns t as an ISO-8601 string with the configured zone
// offset, e.g. "2025-03-01T09:30:00-06:00".
func (f *TimestampFormatter) Format(t time.Time) string {
	return t.In(f.loc).Format(time.RFC3339)
}

// Location exposes the resolved zone for callers that need to do their
// own time math.
func (f *TimestampFormatter) Location() *time.Location {
	return f.loc
}
