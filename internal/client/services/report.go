package services

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// Item is a session resolved against its subject and today's date.
type Item struct {
	Session   models.Session
	Subject   models.Subject
	Day       datex.CalendarDate
	DaysUntil int
	Today     bool
	Tomorrow  bool
}

// Past reports whether the session's day is before today.
func (i Item) Past() bool { return i.DaysUntil < 0 }

// SubjectCount tallies one subject's sessions.
type SubjectCount struct {
	Subject   models.Subject
	Total     int
	Upcoming  int
	Completed int
}

// Report is the content of the reports screen. Upcoming includes today and
// is ascending; Completed is most recent first.
type Report struct {
	Today      datex.CalendarDate
	Upcoming   []Item
	Completed  []Item
	Next       *Item
	PerSubject []SubjectCount
	Stale      bool
}

func (s *agendaService) Report(ctx context.Context) (*Report, error) {
	today := s.clock.Today()
	items, subjects, stale, err := s.items(ctx, today)
	if err != nil {
		return nil, err
	}

	r := &Report{Today: today, Stale: stale}
	counts := make(map[string]*SubjectCount, len(subjects))
	for _, subj := range subjects {
		r.PerSubject = append(r.PerSubject, SubjectCount{Subject: subj})
	}
	for i := range r.PerSubject {
		counts[r.PerSubject[i].Subject.ID] = &r.PerSubject[i]
	}

	for _, it := range items {
		c := counts[it.Session.SubjectID]
		if c != nil {
			c.Total++
		}
		if it.Past() {
			r.Completed = append(r.Completed, it)
			if c != nil {
				c.Completed++
			}
			continue
		}
		r.Upcoming = append(r.Upcoming, it)
		if c != nil {
			c.Upcoming++
		}
	}

	slices.SortStableFunc(r.Upcoming, compareItems)
	slices.SortStableFunc(r.Completed, func(a, b Item) int { return compareItems(b, a) })
	if len(r.Upcoming) > 0 {
		next := r.Upcoming[0]
		r.Next = &next
	}
	return r, nil
}

func compareItems(a, b Item) int {
	return cmp.Or(
		a.Day.Compare(b.Day),
		cmp.Compare(models.SlotOrder(a.Session.Slot), models.SlotOrder(b.Session.Slot)),
		strings.Compare(a.Session.ID, b.Session.ID),
	)
}

// items resolves every session of the owner relative to today. Rows with an
// unreadable date are skipped.
func (s *agendaService) items(ctx context.Context, today datex.CalendarDate) ([]Item, []models.Subject, bool, error) {
	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, nil, false, err
	}

	byID := make(map[string]models.Subject, len(subjects.Rows))
	for _, subj := range subjects.Rows {
		byID[subj.ID] = subj
	}

	items := make([]Item, 0, len(sessions.Rows))
	for _, row := range sessions.Rows {
		day, err := row.Day()
		if err != nil {
			s.log.Warn(ctx, "session with unreadable date", "id", row.ID, "date", row.Date)
			continue
		}
		subj, ok := byID[row.SubjectID]
		if !ok {
			subj = models.MissingSubject(row.SubjectID)
		}
		until := datex.DaysBetween(today, day)
		items = append(items, Item{
			Session:   row,
			Subject:   subj,
			Day:       day,
			DaysUntil: until,
			Today:     until == 0,
			Tomorrow:  until == 1,
		})
	}
	return items, subjects.Rows, subjects.Stale || sessions.Stale, nil
}
