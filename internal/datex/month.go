package datex

import (
	"fmt"
	"time"
)

// MonthCursor is the month the calendar is showing. It is independent of
// Today(): paging moves the cursor, not the clock.
type MonthCursor struct {
	Year  int
	Month time.Month
}

func CursorOf(d CalendarDate) MonthCursor {
	return MonthCursor{Year: d.Year, Month: d.Month}
}

// AddMonths moves c by delta months in either direction.
func AddMonths(c MonthCursor, delta int) MonthCursor {
	idx := c.Year*12 + int(c.Month-1) + delta
	year := floorDiv(idx, 12)
	return MonthCursor{Year: year, Month: time.Month(idx-year*12) + 1}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (c MonthCursor) Next() MonthCursor { return AddMonths(c, 1) }
func (c MonthCursor) Prev() MonthCursor { return AddMonths(c, -1) }

func (c MonthCursor) First() CalendarDate {
	return CalendarDate{Year: c.Year, Month: c.Month, Day: 1}
}

func (c MonthCursor) DaysIn() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (c MonthCursor) Contains(d CalendarDate) bool {
	return d.Year == c.Year && d.Month == c.Month
}

// String renders "março de 2025".
func (c MonthCursor) String() string {
	return fmt.Sprintf("%s de %d", MonthName(c.Month), c.Year)
}

// GridCell is one square of the month view; Day is 0 for padding cells.
type GridCell struct {
	Day int
}

func (g GridCell) Blank() bool { return g.Day == 0 }

// MonthGrid lays c out in Sunday-first weeks, padding the first and last
// week with blank cells.
func MonthGrid(c MonthCursor) [][]GridCell {
	lead := int(c.First().Weekday())
	total := lead + c.DaysIn()
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	cells := make([]GridCell, total)
	for day := 1; day <= c.DaysIn(); day++ {
		cells[lead+day-1] = GridCell{Day: day}
	}

	weeks := make([][]GridCell, 0, total/7)
	for i := 0; i < total; i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}
