// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout used for storage and display.
const DateLayout = "2006-01-02"

// Date is a calendar day. The wrapped time is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the calendar day for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. Longer ISO timestamps are truncated to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MustParseDate is like ParseDate but panics on error. Intended for fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after e.
func (d Date) Compare(e Date) int {
	return d.Time.Compare(e.Time)
}

// Before reports whether d is strictly before e.
func (d Date) Before(e Date) bool {
	return d.Time.Before(e.Time)
}

// After reports whether d is strictly after e.
func (d Date) After(e Date) bool {
	return d.Time.After(e.Time)
}

// Equal reports whether d and e are the same day.
func (d Date) Equal(e Date) bool {
	return d.Time.Equal(e.Time)
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// AddMonths returns d shifted by n calendar months, normalized the way time.AddDate does.
func (d Date) AddMonths(n int) Date {
	return Date{d.AddDate(0, n, 0)}
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month()+1, 0)
}

// StartOfYear returns January 1st of d's year.
func (d Date) StartOfYear() Date {
	return NewDate(d.Year(), time.January, 1)
}

// EndOfYear returns December 31st of d's year.
func (d Date) EndOfYear() Date {
	return NewDate(d.Year(), time.December, 31)
}

// MonthKey returns the YYYY-MM bucket key of d.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// DaysUntil returns the number of whole days from d to e.
func (d Date) DaysUntil(e Date) int {
	return int(e.Sub(d.Time).Hours() / 24)
}

// MarshalJSON encodes the day as "YYYY-MM-DD"; the zero day encodes as "".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", full ISO timestamps, "" and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
