package query

import (
	"database/sql"
	"time"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp serializes as an ISO-8601 UTC string with millisecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// NullableTimestamp returns nil for a NULL column.
func NullableTimestamp(t sql.NullTime) *Timestamp {
	if !t.Valid {
		return nil
	}
	ts := NewTimestamp(t.Time)
	return &ts
}

// String formats the timestamp with TimestampLayout.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339Nano+`"`, string(data))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// NullableString turns a NULL or empty column into nil.
func NullableString(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	value := s.String
	return &value
}
