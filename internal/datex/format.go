package datex

import (
	"fmt"
	"time"
)

var weekdaysPT = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

var monthsPT = [...]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

// WeekdayHeaders are the calendar column titles, Sunday first.
var WeekdayHeaders = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// FormatLong renders d like "segunda-feira, 10 de março de 2025".
func FormatLong(d CalendarDate) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdaysPT[d.Weekday()], d.Day, monthsPT[d.Month], d.Year)
}

// FormatShort renders d as DD/MM/YYYY.
func FormatShort(d CalendarDate) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// MonthName is the lower-case Portuguese month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthsPT[m]
}

func (c *Classifier) FormatLong(d CalendarDate) string  { return FormatLong(d) }
func (c *Classifier) FormatShort(d CalendarDate) string { return FormatShort(d) }
