// Package date provides the calendar date and timestamp types exchanged
// with the task backend and typed into forms.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	format = "2006-01-02"

	// InputLayout is the datetime-input layout used by the task form and
	// the deadline field sent to the backend.
	InputLayout = "2006-01-02T15:04"
)

// timestampLayouts are tried in order when parsing backend timestamps.
// Zoneless values are interpreted in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	InputLayout,
	"2006-01-02 15:04:05",
	format,
}

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Today returns today's date.
func Today() Date {
	return Of(time.Now())
}

// Of truncates t to its calendar date in t's location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.ParseInLocation(format, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(format)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// Contains reports whether t falls on this date.
func (d Date) Contains(t time.Time) bool {
	return Of(t.In(d.Location())).Equal(d.Time)
}

// ParseInput parses a datetime-input value (YYYY-MM-DDTHH:MM).
func ParseInput(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InputLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: expected YYYY-MM-DDTHH:MM", s)
	}
	return t, nil
}

// FormatInput formats t for a datetime input.
func FormatInput(t time.Time) string {
	return t.Local().Format(InputLayout)
}

// Timestamp is a point in time as served by the backend. It accepts
// ISO-8601 strings with or without offset and fractional seconds.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a backend timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
