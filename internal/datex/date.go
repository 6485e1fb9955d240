// Package datex classifies calendar dates as past, today or future against a
// fixed civil timezone, independent of the host clock's zone.
//
// All "now" resolution goes through a Classifier, which holds the zone and a
// clock function. Calendar dates themselves carry no time of day and no zone.
package datex

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateFormat is returned for input that is not a YYYY-MM-DD date.
var ErrInvalidDateFormat = errors.New("invalid date format")

const isoLayout = "2006-01-02"

// CalendarDate is a date with no time-of-day component.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalises overflowing values the way time.Date does,
// so NewDate(2025, 1, 32) is 1 February 2025.
func NewDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf takes the civil date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses a strict YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if len(s) != len(isoLayout) {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return DateOf(t), nil
}

// MustParse is ParseCalendarDate for literals in tests and tables.
func MustParse(s string) CalendarDate {
	d, err := ParseCalendarDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	return d.utc().Compare(o.utc())
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }

func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.utc().AddDate(0, 0, n))
}

func (d CalendarDate) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b CalendarDate) int {
	return int(b.utc().Sub(a.utc()).Hours() / 24)
}
