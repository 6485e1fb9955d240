package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/datex"
)

func (s *agendaService) CreateSession(ctx context.Context, in SessionInput) (models.Session, error) {
	owner, err := s.currentOwner()
	if err != nil {
		return models.Session{}, err
	}
	if err := s.checkSession(ctx, owner, "", &in); err != nil {
		return models.Session{}, err
	}

	defer s.sessionCache.Invalidate(owner, kindSessions)
	created, err := s.sessions.Create(ctx, owner, in.fields())
	if err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}
	s.log.Info(ctx, "session created", "id", created.ID, "date", created.Date, "slot", created.Slot)
	return created, nil
}

func (s *agendaService) UpdateSession(ctx context.Context, id string, in SessionInput) error {
	owner, err := s.currentOwner()
	if err != nil {
		return err
	}
	if err := s.checkSession(ctx, owner, id, &in); err != nil {
		return err
	}

	defer s.sessionCache.Invalidate(owner, kindSessions)
	if err := s.sessions.Update(ctx, id, in.fields()); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *agendaService) DeleteSession(ctx context.Context, id string) error {
	owner, err := s.currentOwner()
	if err != nil {
		return err
	}
	defer s.sessionCache.Invalidate(owner, kindSessions)
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// checkSession runs the form checks and the owner-scoped rules: the date
// parses, the subject exists, and no other session holds the same date and
// slot. self is the edited row, exempt from the slot rule. in.Date is
// rewritten to its canonical form.
func (s *agendaService) checkSession(ctx context.Context, owner, self string, in *SessionInput) error {
	in.normalize()
	if err := s.check(*in); err != nil {
		return err
	}
	day, err := datex.ParseCalendarDate(in.Date)
	if err != nil {
		return common.NewValidationError("data", reasonBadDate)
	}
	in.Date = day.String()

	subjects, err := s.loadSubjects(ctx, owner)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(subjects, func(x models.Subject) bool { return x.ID == in.SubjectID }) {
		return common.NewValidationError("disciplinaId", reasonNoSubject)
	}

	sessions, err := s.loadSessions(ctx, owner)
	if err != nil {
		return err
	}
	found := self == ""
	for _, row := range sessions {
		if row.ID == self {
			found = true
			continue
		}
		if row.Date == in.Date && row.Slot == in.Slot {
			return common.NewValidationError("horario", reasonDuplicateSlot)
		}
	}
	if !found {
		return fmt.Errorf("session %s: %w", self, common.ErrNotFound)
	}
	return nil
}
