package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
)

// CascadeError is returned by DeleteSubject when some linked sessions could
// not be deleted. The subject itself is left in place.
type CascadeError struct {
	SubjectID string
	Deleted   int
	Failed    []string
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("delete subject %s: %d of %d sessions not deleted: %v",
		e.SubjectID, len(e.Failed), e.Deleted+len(e.Failed), e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

func (s *agendaService) CreateSubject(ctx context.Context, in SubjectInput) (models.Subject, error) {
	owner, err := s.currentOwner()
	if err != nil {
		return models.Subject{}, err
	}
	in.normalize()
	if err := s.check(in); err != nil {
		return models.Subject{}, err
	}
	if err := s.checkSubjectName(ctx, owner, "", in.Name); err != nil {
		return models.Subject{}, err
	}
	if in.Color == "" {
		in.Color = models.RandomColor()
	}

	defer s.subjectCache.Invalidate(owner, kindSubjects)
	created, err := s.subjects.Create(ctx, owner, in.fields())
	if err != nil {
		return models.Subject{}, fmt.Errorf("create subject: %w", err)
	}
	s.log.Info(ctx, "subject created", "id", created.ID)
	return created, nil
}

// UpdateSubject keeps the stored color when in.Color is empty.
func (s *agendaService) UpdateSubject(ctx context.Context, id string, in SubjectInput) error {
	owner, err := s.currentOwner()
	if err != nil {
		return err
	}
	in.normalize()
	if err := s.check(in); err != nil {
		return err
	}
	if err := s.checkSubjectName(ctx, owner, id, in.Name); err != nil {
		return err
	}

	defer s.subjectCache.Invalidate(owner, kindSubjects)
	if err := s.subjects.Update(ctx, id, in.fields()); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// checkSubjectName enforces case-insensitive unique names per owner and
// that self, when set, is one of the owner's subjects.
func (s *agendaService) checkSubjectName(ctx context.Context, owner, self, name string) error {
	rows, err := s.loadSubjects(ctx, owner)
	if err != nil {
		return err
	}
	found := self == ""
	for _, row := range rows {
		if row.ID == self {
			found = true
			continue
		}
		if strings.EqualFold(row.Name, name) {
			return common.NewValidationError("nome", reasonDuplicateName)
		}
	}
	if !found {
		return fmt.Errorf("subject %s: %w", self, common.ErrNotFound)
	}
	return nil
}

// DeleteSubject removes the subject's sessions first, then the subject.
func (s *agendaService) DeleteSubject(ctx context.Context, id string) error {
	owner, err := s.currentOwner()
	if err != nil {
		return err
	}
	linked, err := s.sessions.ListBySubject(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("list linked sessions: %w", err)
	}

	defer s.subjectCache.Invalidate(owner, kindSubjects)
	defer s.sessionCache.Invalidate(owner, kindSessions)

	var (
		failed []string
		errs   []error
	)
	for _, row := range linked {
		if err := s.sessions.Delete(ctx, row.ID); err != nil {
			failed = append(failed, row.ID)
			errs = append(errs, fmt.Errorf("session %s: %w", row.ID, err))
		}
	}
	if len(errs) > 0 {
		s.log.Warn(ctx, "cascade delete incomplete", "subject", id, "failed", len(failed))
		return &CascadeError{
			SubjectID: id,
			Deleted:   len(linked) - len(failed),
			Failed:    failed,
			Err:       errors.Join(errs...),
		}
	}

	if err := s.subjects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	s.log.Info(ctx, "subject deleted", "id", id, "sessions", len(linked))
	return nil
}

// LinkedSessions counts the sessions that DeleteSubject would remove.
func (s *agendaService) LinkedSessions(ctx context.Context, subjectID string) (int, error) {
	owner, err := s.currentOwner()
	if err != nil {
		return 0, err
	}
	rows, err := s.loadSessions(ctx, owner)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range rows {
		if row.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}
