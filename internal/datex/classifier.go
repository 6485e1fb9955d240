package datex

import (
	"fmt"
	"time"

	// The civil zone must resolve even on hosts without zoneinfo.
	_ "time/tzdata"
)

// DefaultZone is Brasília official time.
const DefaultZone = "America/Sao_Paulo"

// Classifier answers past/today/future questions in one fixed zone.
type Classifier struct {
	loc *time.Location
	now func() time.Time
}

// NewClassifier builds a Classifier for loc. A nil now uses time.Now.
func NewClassifier(loc *time.Location, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{loc: loc, now: now}
}

// LoadClassifier resolves zone by IANA name; "" means DefaultZone.
func LoadClassifier(zone string, now func() time.Time) (*Classifier, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", zone, err)
	}
	return NewClassifier(loc, now), nil
}

func (c *Classifier) Location() *time.Location { return c.loc }

// Now is the current instant expressed in the civil zone.
func (c *Classifier) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the current civil date.
func (c *Classifier) Today() CalendarDate {
	return DateOf(c.Now())
}

// IsPast reports d < Today(). A session dated today is not past yet.
func (c *Classifier) IsPast(d CalendarDate) bool {
	return d.Before(c.Today())
}

// IsToday compares against Today(); month is 1-12.
func (c *Classifier) IsToday(day int, month time.Month, year int) bool {
	t := c.Today()
	return t.Day == day && t.Month == month && t.Year == year
}

// DaysUntil is negative for past dates and zero for today.
func (c *Classifier) DaysUntil(d CalendarDate) int {
	return DaysBetween(c.Today(), d)
}

// CurrentMonth is the month cursor containing Today().
func (c *Classifier) CurrentMonth() MonthCursor {
	return CursorOf(c.Today())
}
