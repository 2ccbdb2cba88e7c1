package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the lexical form used by profile files: calendar date
// plus 24-hour wall clock time.
const TimestampLayout = "2006-01-02 15:04"

// DateLayout is the calendar date part of TimestampLayout.
const DateLayout = "2006-01-02"

// Timestamp is a wall-clock sample time on the 15-minute grid. It carries no
// time zone; values are stored as UTC so that every day has exactly 96 steps.
type Timestamp struct {
	t time.Time
}

// NewTimestamp builds a timestamp from calendar fields.
func NewTimestamp(year int, month time.Month, day, hour, minute int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, hour, minute, 0, 0, time.UTC)}
}

// TimestampOf drops the zone of t and keeps its wall clock.
func TimestampOf(t time.Time) Timestamp {
	return NewTimestamp(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM". An RFC 3339 form
// ("YYYY-MM-DDTHH:MM[:SS][Z]") is accepted too.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimestampOf(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("parsing timestamp %q: expected %q", s, TimestampLayout)
}

// ParseDate parses "YYYY-MM-DD" and returns midnight of that day.
func ParseDate(s string) (Timestamp, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Timestamp{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return TimestampOf(t), nil
}

// Time returns the underlying UTC time.
func (ts Timestamp) Time() time.Time { return ts.t }

func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// MinuteOfDay returns minutes since midnight (0..1439).
func (ts Timestamp) MinuteOfDay() int {
	return ts.t.Hour()*60 + ts.t.Minute()
}

// HourOfDay returns the time of day as fractional hours (0 <= h < 24).
func (ts Timestamp) HourOfDay() float64 {
	return float64(ts.MinuteOfDay()) / 60
}

// Month returns the calendar month.
func (ts Timestamp) Month() time.Month { return ts.t.Month() }

// MonthIndex returns the 0-based calendar month (January = 0).
func (ts Timestamp) MonthIndex() int { return int(ts.t.Month()) - 1 }

func (ts Timestamp) Year() int { return ts.t.Year() }

// Date returns the calendar date as "YYYY-MM-DD".
func (ts Timestamp) Date() string { return ts.t.Format(DateLayout) }

// StartOfDay returns midnight of the same calendar day.
func (ts Timestamp) StartOfDay() Timestamp {
	return NewTimestamp(ts.t.Year(), ts.t.Month(), ts.t.Day(), 0, 0)
}

// SameDay reports whether both timestamps fall on the same calendar date.
func (ts Timestamp) SameDay(o Timestamp) bool {
	y1, m1, d1 := ts.t.Date()
	y2, m2, d2 := o.t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (ts Timestamp) Add(d time.Duration) Timestamp { return Timestamp{t: ts.t.Add(d)} }

func (ts Timestamp) Sub(o Timestamp) time.Duration { return ts.t.Sub(o.t) }

func (ts Timestamp) Before(o Timestamp) bool { return ts.t.Before(o.t) }

func (ts Timestamp) After(o Timestamp) bool { return ts.t.After(o.t) }

func (ts Timestamp) Equal(o Timestamp) bool { return ts.t.Equal(o.t) }

func (ts Timestamp) String() string { return ts.t.Format(TimestampLayout) }

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
