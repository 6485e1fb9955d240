// Package sweeper keeps the client's persistent storage limited to the data
// of the active owner.
//
// A sweep never fails because a single key could not be removed: such
// failures are logged and the sweep moves on. Only a failure to enumerate the
// store is reported, as common.ErrStorageSweepFailed, and callers are
// expected to answer it with PurgeAll.
package sweeper

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/client/storage"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/logging"
)

type Sweeper struct {
	persistent storage.KeyValueStore
	volatile   storage.KeyValueStore
	dbs        storage.DatabaseRegistry
	ns         storage.Namespace
	log        logging.Logger
}

// New builds a Sweeper. dbs may be nil when the app keeps no extra databases.
func New(persistent, volatile storage.KeyValueStore, dbs storage.DatabaseRegistry,
	ns storage.Namespace, log logging.Logger) *Sweeper {
	return &Sweeper{
		persistent: persistent,
		volatile:   volatile,
		dbs:        dbs,
		ns:         ns,
		log:        log.With("module", "sweeper"),
	}
}

func (s *Sweeper) RecordActiveOwner(ctx context.Context, owner string) error {
	if err := s.persistent.Set(ctx, s.ns.ActiveOwnerKey(), []byte(owner)); err != nil {
		return fmt.Errorf("record active owner: %w", err)
	}
	return nil
}

// ActiveOwner returns "" when no owner has been recorded.
func (s *Sweeper) ActiveOwner(ctx context.Context) (string, error) {
	v, err := s.persistent.Get(ctx, s.ns.ActiveOwnerKey())
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read active owner: %w", err)
	}
	return string(v), nil
}

func (s *Sweeper) ForgetActiveOwner(ctx context.Context) error {
	if err := s.persistent.Remove(ctx, s.ns.ActiveOwnerKey()); err != nil {
		return fmt.Errorf("forget active owner: %w", err)
	}
	return nil
}

// SweepOnOwnerChange removes every owner-scoped key not belonging to next
// and empties the volatile store. It does nothing when prev == next.
func (s *Sweeper) SweepOnOwnerChange(ctx context.Context, prev, next string) error {
	if prev == next {
		return nil
	}
	s.log.Info(ctx, "owner changed, sweeping", "from", prev, "to", next)

	keys, err := s.scan(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if s.ns.Foreign(k, next) {
			s.remove(ctx, k)
		}
	}

	if err := s.volatile.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear volatile store", "error", err)
	}
	return nil
}

// SweepForeignOwners removes the keys of any owner other than current and
// returns the keys found by the first scan. When something was removed the
// store is scanned once more to confirm.
func (s *Sweeper) SweepForeignOwners(ctx context.Context, current string) ([]string, error) {
	foreign, err := s.foreign(ctx, current)
	if err != nil {
		return nil, err
	}
	if len(foreign) == 0 {
		return nil, nil
	}

	s.log.Info(ctx, "removing foreign owner keys", "count", len(foreign))
	for _, k := range foreign {
		s.remove(ctx, k)
	}

	left, err := s.foreign(ctx, current)
	if err != nil {
		return foreign, err
	}
	if len(left) > 0 {
		s.log.Warn(ctx, "foreign keys survived sweep", "keys", left)
	}
	return foreign, nil
}

// SweepOwner removes the keys scoped to owner.
func (s *Sweeper) SweepOwner(ctx context.Context, owner string) error {
	keys, err := s.scan(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if s.ns.Owns(k, owner) {
			s.remove(ctx, k)
		}
	}
	return nil
}

// PurgeAll wipes both stores and drops every registered database,
// regardless of owner. Failures are logged, never returned.
func (s *Sweeper) PurgeAll(ctx context.Context) {
	s.log.Warn(ctx, "purging all local data")

	if err := s.persistent.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear persistent store", "error", err)
	}
	if err := s.volatile.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear volatile store", "error", err)
	}
	if s.dbs == nil {
		return
	}

	names, err := s.dbs.Names(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to list databases", "error", err)
		return
	}
	for _, n := range names {
		if err := s.dbs.Drop(ctx, n); err != nil {
			s.log.Error(ctx, "failed to drop database", "name", n, "error", err)
		}
	}
}

func (s *Sweeper) scan(ctx context.Context) ([]string, error) {
	keys, err := s.persistent.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageSweepFailed, err)
	}
	return keys, nil
}

func (s *Sweeper) foreign(ctx context.Context, current string) ([]string, error) {
	keys, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if s.ns.Foreign(k, current) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *Sweeper) remove(ctx context.Context, key string) {
	if err := s.persistent.Remove(ctx, key); err != nil {
		s.log.Warn(ctx, "failed to remove key", "key", key, "error", err)
	}
}
