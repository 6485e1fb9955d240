package remote

import (
	"cmp"
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
)

// Subjects is the typed client for the subjects collection.
type Subjects struct {
	c collection[models.Subject]
}

func NewSubjects(store DocumentStore, now func() time.Time) *Subjects {
	if now == nil {
		now = time.Now
	}
	return &Subjects{c: collection[models.Subject]{
		name:  common.CollectionSubjects,
		store: store,
		now:   now,
		cmp:   compareSubjects,
	}}
}

func compareSubjects(a, b models.Subject) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// List returns the owner's subjects ordered by name, case-insensitively.
func (s *Subjects) List(ctx context.Context, owner string) ([]models.Subject, error) {
	return s.c.query(ctx, owner, nil)
}

func (s *Subjects) Create(ctx context.Context, owner string, fields models.Fields) (models.Subject, error) {
	return s.c.create(ctx, owner, fields)
}

// Update returns common.ErrNotFound when id does not exist.
func (s *Subjects) Update(ctx context.Context, id string, fields models.Fields) error {
	return s.c.update(ctx, id, fields)
}

// Delete succeeds for ids that are already gone.
func (s *Subjects) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// Sessions is the typed client for the sessions collection.
type Sessions struct {
	c collection[models.Session]
}

func NewSessions(store DocumentStore, now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{c: collection[models.Session]{
		name:     common.CollectionSessions,
		store:    store,
		now:      now,
		cmp:      compareSessions,
		defaults: models.Fields{common.FieldStatus: models.StatusScheduled},
	}}
}

func compareSessions(a, b models.Session) int {
	return cmp.Or(
		strings.Compare(a.Date, b.Date),
		cmp.Compare(models.SlotOrder(a.Slot), models.SlotOrder(b.Slot)),
		strings.Compare(a.ID, b.ID),
	)
}

// List returns the owner's sessions ordered by date, then slot.
func (s *Sessions) List(ctx context.Context, owner string) ([]models.Session, error) {
	return s.c.query(ctx, owner, nil)
}

// ListBySubject narrows List to one subject.
func (s *Sessions) ListBySubject(ctx context.Context, owner, subjectID string) ([]models.Session, error) {
	return s.c.query(ctx, owner, Filter{common.FieldSubjectID: subjectID})
}

func (s *Sessions) Create(ctx context.Context, owner string, fields models.Fields) (models.Session, error) {
	return s.c.create(ctx, owner, fields)
}

func (s *Sessions) Update(ctx context.Context, id string, fields models.Fields) error {
	return s.c.update(ctx, id, fields)
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}
