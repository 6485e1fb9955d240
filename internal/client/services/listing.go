package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/client/cache"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
)

const (
	kindSubjects = common.CollectionSubjects
	kindSessions = common.CollectionSessions
)

// snapshot is the persisted copy of the last good listing.
type snapshot[T any] struct {
	SavedAt time.Time `json:"savedAt"`
	Rows    []T       `json:"rows"`
}

func (s *agendaService) currentOwner() (string, error) {
	owner, ok := s.owner.Owner()
	if !ok || owner == "" {
		return "", common.ErrUnauthenticated
	}
	return owner, nil
}

// loadSubjects goes through the cache and never falls back to a snapshot.
// Writes validate against it.
func (s *agendaService) loadSubjects(ctx context.Context, owner string) ([]models.Subject, error) {
	return s.subjectCache.Fetch(ctx, owner, kindSubjects, func(ctx context.Context) ([]models.Subject, error) {
		rows, err := s.subjects.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		saveSnapshot(ctx, s, owner, kindSubjects, rows)
		return rows, nil
	})
}

func (s *agendaService) loadSessions(ctx context.Context, owner string) ([]models.Session, error) {
	return s.sessionCache.Fetch(ctx, owner, kindSessions, func(ctx context.Context) ([]models.Session, error) {
		rows, err := s.sessions.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		saveSnapshot(ctx, s, owner, kindSessions, rows)
		return rows, nil
	})
}

func (s *agendaService) ListSubjects(ctx context.Context) (Listing[models.Subject], error) {
	owner, err := s.currentOwner()
	if err != nil {
		return Listing[models.Subject]{}, err
	}
	return listing(ctx, s, s.subjectCache, owner, kindSubjects, s.loadSubjects)
}

func (s *agendaService) ListSessions(ctx context.Context) (Listing[models.Session], error) {
	owner, err := s.currentOwner()
	if err != nil {
		return Listing[models.Session]{}, err
	}
	return listing(ctx, s, s.sessionCache, owner, kindSessions, s.loadSessions)
}

// listing loads rows through the cache. When the remote is unreachable the
// last snapshot of the same owner is served instead, flagged as stale.
func listing[T any](
	ctx context.Context,
	s *agendaService,
	c *cache.Cache[T],
	owner, kind string,
	load func(context.Context, string) ([]T, error),
) (Listing[T], error) {
	rows, err := load(ctx, owner)
	if err == nil {
		loadedAt := s.clock.Now()
		if e := c.Get(owner, kind); e.State == cache.Loaded {
			loadedAt = e.LoadedAt
		}
		return Listing[T]{Rows: rows, LoadedAt: loadedAt}, nil
	}
	if !errors.Is(err, common.ErrRemoteUnavailable) {
		return Listing[T]{}, err
	}

	snap, serr := loadSnapshot[T](ctx, s, owner, kind)
	if serr != nil {
		s.log.Debug(ctx, "no snapshot to fall back to", "kind", kind, "error", serr)
		return Listing[T]{}, err
	}
	s.log.Warn(ctx, "remote unavailable, serving snapshot", "kind", kind, "saved_at", snap.SavedAt)
	return Listing[T]{Rows: snap.Rows, Stale: true, LoadedAt: snap.SavedAt}, nil
}

// saveSnapshot persists rows under the owner's key. Nothing is written when
// the session moved to another owner while the fetch was running.
func saveSnapshot[T any](ctx context.Context, s *agendaService, owner, kind string, rows []T) {
	if current, ok := s.owner.Owner(); !ok || current != owner {
		s.log.Debug(ctx, "owner changed during fetch, snapshot skipped", "kind", kind)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	b, err := json.Marshal(snapshot[T]{SavedAt: s.clock.Now(), Rows: rows})
	if err != nil {
		s.log.Warn(ctx, "encode snapshot", "kind", kind, "error", err)
		return
	}
	if err := s.snapshots.Set(ctx, s.ns.Key(owner, kind), b); err != nil {
		s.log.Warn(ctx, "save snapshot", "kind", kind, "error", err)
	}
}

func loadSnapshot[T any](ctx context.Context, s *agendaService, owner, kind string) (snapshot[T], error) {
	var snap snapshot[T]
	b, err := s.snapshots.Get(ctx, s.ns.Key(owner, kind))
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, err
	}
	if snap.Rows == nil {
		snap.Rows = []T{}
	}
	return snap, nil
}
