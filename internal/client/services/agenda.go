// Package services contains the application services used by the CLI.
// This file defines the agenda service: listings of subjects and sessions
// through the scoped cache, form checks, and the writes that go with them.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/client/cache"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/storage"
	"github.com/dmitrijs2005/labagenda/internal/datex"
	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/go-playground/validator/v10"
)

// OwnerSource hands out the owner of the current session, if any.
type OwnerSource interface {
	Owner() (string, bool)
}

// SubjectStore is the remote subjects collection.
type SubjectStore interface {
	List(ctx context.Context, owner string) ([]models.Subject, error)
	Create(ctx context.Context, owner string, fields models.Fields) (models.Subject, error)
	Update(ctx context.Context, id string, fields models.Fields) error
	Delete(ctx context.Context, id string) error
}

// SessionStore is the remote sessions collection.
type SessionStore interface {
	List(ctx context.Context, owner string) ([]models.Session, error)
	ListBySubject(ctx context.Context, owner, subjectID string) ([]models.Session, error)
	Create(ctx context.Context, owner string, fields models.Fields) (models.Session, error)
	Update(ctx context.Context, id string, fields models.Fields) error
	Delete(ctx context.Context, id string) error
}

// Listing is a list of rows along with where they came from. Stale rows
// were read from the last persisted snapshot because the remote was
// unreachable; LoadedAt is when that snapshot was taken.
type Listing[T any] struct {
	Rows     []T
	Stale    bool
	LoadedAt time.Time
}

// AgendaService defines the agenda operations for the CLI.
//
// Every method acts on behalf of the owner reported by OwnerSource and
// fails with common.ErrUnauthenticated when there is none. Form checks
// fail with *common.ValidationError.
type AgendaService interface {
	ListSubjects(ctx context.Context) (Listing[models.Subject], error)
	CreateSubject(ctx context.Context, in SubjectInput) (models.Subject, error)
	UpdateSubject(ctx context.Context, id string, in SubjectInput) error
	DeleteSubject(ctx context.Context, id string) error
	LinkedSessions(ctx context.Context, subjectID string) (int, error)

	ListSessions(ctx context.Context) (Listing[models.Session], error)
	CreateSession(ctx context.Context, in SessionInput) (models.Session, error)
	UpdateSession(ctx context.Context, id string, in SessionInput) error
	DeleteSession(ctx context.Context, id string) error

	Report(ctx context.Context) (*Report, error)
	Month(ctx context.Context, cursor datex.MonthCursor) (*MonthView, error)

	// Refresh drops the current owner's cached listings.
	Refresh()
	// ClearAll drops every cached listing of every owner.
	ClearAll()
}

type agendaService struct {
	owner     OwnerSource
	subjects  SubjectStore
	sessions  SessionStore
	snapshots storage.KeyValueStore
	ns        storage.Namespace
	clock     *datex.Classifier
	log       logging.Logger
	validate  *validator.Validate

	subjectCache *cache.Cache[models.Subject]
	sessionCache *cache.Cache[models.Session]
}

// NewAgendaService wires the service. snapshots is the persistent store
// that keeps the last listing of each collection for stale fallback.
func NewAgendaService(
	owner OwnerSource,
	subjects SubjectStore,
	sessions SessionStore,
	snapshots storage.KeyValueStore,
	ns storage.Namespace,
	clock *datex.Classifier,
	log logging.Logger,
) AgendaService {
	if log == nil {
		log = logging.Nop()
	}
	return &agendaService{
		owner:        owner,
		subjects:     subjects,
		sessions:     sessions,
		snapshots:    snapshots,
		ns:           ns,
		clock:        clock,
		log:          log.With("module", "agenda"),
		validate:     newValidator(),
		subjectCache: cache.New[models.Subject](),
		sessionCache: cache.New[models.Session](),
	}
}

func (s *agendaService) Refresh() {
	owner, ok := s.owner.Owner()
	if !ok {
		return
	}
	s.subjectCache.Invalidate(owner, kindSubjects)
	s.sessionCache.Invalidate(owner, kindSessions)
}

func (s *agendaService) ClearAll() {
	s.subjectCache.ClearAll()
	s.sessionCache.ClearAll()
}
