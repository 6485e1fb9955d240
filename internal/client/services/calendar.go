package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// DayCell is one square of the month grid. Blank cells pad the first and
// last week and carry no date.
type DayCell struct {
	Date     datex.CalendarDate
	Blank    bool
	Today    bool
	Sessions []Item
}

// MonthView is the content of the calendar screen.
type MonthView struct {
	Cursor datex.MonthCursor
	Title  string
	Weeks  [][]DayCell
	Total  int
	Stale  bool
}

func (s *agendaService) Month(ctx context.Context, cursor datex.MonthCursor) (*MonthView, error) {
	today := s.clock.Today()
	items, _, stale, err := s.items(ctx, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]Item)
	total := 0
	for _, it := range items {
		if !cursor.Contains(it.Day) {
			continue
		}
		byDay[it.Day.Day] = append(byDay[it.Day.Day], it)
		total++
	}

	view := &MonthView{Cursor: cursor, Title: cursor.String(), Total: total, Stale: stale}
	for _, week := range datex.MonthGrid(cursor) {
		row := make([]DayCell, len(week))
		for i, cell := range week {
			if cell.Blank() {
				row[i] = DayCell{Blank: true}
				continue
			}
			day := datex.NewDate(cursor.Year, cursor.Month, cell.Day)
			list := byDay[cell.Day]
			slices.SortStableFunc(list, compareItems)
			row[i] = DayCell{
				Date:     day,
				Today:    day == today,
				Sessions: list,
			}
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view, nil
}
