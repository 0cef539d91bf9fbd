package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/julianstephens/taskmaster/internal/constants"
)

// Epoch is the sentinel used wherever a stored date or time cannot be parsed.
// Sorting and display stay total over malformed records instead of failing.
var Epoch = time.Unix(0, 0).UTC()

// Date is a calendar date or instant stored as an ISO-8601 string.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// DateOf returns local midnight of the given calendar day.
func DateOf(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Day formats the calendar day of d in loc as YYYY-MM-DD.
func (d Date) Day(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return d.In(loc).Format(constants.DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails on bad input: malformed values become Epoch so one
// broken record does not discard the whole collection.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Time = Epoch
		return nil
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		d.Time = Epoch
		return nil
	}
	d.Time = t
	return nil
}

// ParseDate accepts RFC 3339 timestamps (with or without fractional seconds)
// and plain YYYY-MM-DD dates, the latter as local midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(constants.DateFormat, s, time.Local)
}

// ParseDateOrEpoch is ParseDate with the Epoch fallback.
func ParseDateOrEpoch(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		return Epoch
	}
	return t
}
