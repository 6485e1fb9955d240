// Package authstate owns the answer to "who is signed in".
//
// The Controller listens to the identity provider and, on every transition,
// sweeps local storage and clears caches before it publishes the new state.
// It is the only writer of the active-owner marker. Services read the
// current owner through Owner and never hold on to it.
package authstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/labagenda/internal/client/identity"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/logging"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the published session state. Principal is set only when
// State is Authenticated.
type Snapshot struct {
	State     State
	Principal *models.Principal
}

// Owner returns "" unless authenticated.
func (s Snapshot) Owner() string {
	if s.State != Authenticated || s.Principal == nil {
		return ""
	}
	return s.Principal.OwnerID
}

// IdentitySource is the part of identity.Provider the controller drives.
type IdentitySource interface {
	Resolve(ctx context.Context) error
	OnIdentityChange(fn identity.Listener) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// Sweeper is implemented by *sweeper.Sweeper.
type Sweeper interface {
	ActiveOwner(ctx context.Context) (string, error)
	RecordActiveOwner(ctx context.Context, owner string) error
	ForgetActiveOwner(ctx context.Context) error
	SweepOnOwnerChange(ctx context.Context, prev, next string) error
	SweepForeignOwners(ctx context.Context, current string) ([]string, error)
	SweepOwner(ctx context.Context, owner string) error
	PurgeAll(ctx context.Context)
}

// CacheClearer is anything holding per-owner cached data.
type CacheClearer interface {
	ClearAll()
}

type Controller struct {
	ids    IdentitySource
	sweep  Sweeper
	caches []CacheClearer
	log    logging.Logger

	// transition serialises identity events.
	transition sync.Mutex

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
	unsub  func()
}

func New(ids IdentitySource, sweep Sweeper, log logging.Logger, caches ...CacheClearer) *Controller {
	return &Controller{
		ids:    ids,
		sweep:  sweep,
		caches: caches,
		log:    log.With("module", "authstate"),
		subs:   make(map[int]func(Snapshot)),
	}
}

// Start subscribes to the identity provider and resolves the initial
// identity. The state leaves Unknown before Start returns.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.unsub == nil {
		c.unsub = c.ids.OnIdentityChange(c.handle)
	}
	c.mu.Unlock()

	if err := c.ids.Resolve(ctx); err != nil {
		c.log.Warn(ctx, "identity resolution failed", "error", err)
		return err
	}
	return nil
}

// Stop detaches from the identity provider.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Controller) State() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{State: c.snap.State, Principal: clone(c.snap.Principal)}
}

// Owner is the session handle injected into services.
func (c *Controller) Owner() (string, bool) {
	owner := c.State().Owner()
	return owner, owner != ""
}

// Subscribe calls fn after every published change.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// SignOut cleans up locally, then asks the provider to sign out. The
// session ends Unauthenticated whatever the provider answers; its error is
// returned for reporting only.
func (c *Controller) SignOut(ctx context.Context) error {
	owner := c.State().Owner()

	c.clearCaches()
	if owner != "" {
		if err := c.sweep.SweepOwner(ctx, owner); err != nil {
			c.log.Error(ctx, "sign-out sweep failed, purging", "error", err)
			c.sweep.PurgeAll(ctx)
		}
	}

	err := c.ids.SignOut(ctx)
	if err != nil {
		c.log.Warn(ctx, "remote sign-out failed", "error", err)
	}

	c.transition.Lock()
	if c.State().State != Unauthenticated {
		if ferr := c.sweep.ForgetActiveOwner(ctx); ferr != nil {
			c.log.Warn(ctx, "failed to forget active owner", "error", ferr)
		}
		c.publish(Snapshot{State: Unauthenticated})
	}
	c.transition.Unlock()
	return err
}

func (c *Controller) handle(ctx context.Context, p *models.Principal) {
	c.transition.Lock()
	err := c.safeApply(ctx, p)
	if err != nil {
		c.log.Error(ctx, "identity transition failed, purging local data", "error", err)
		c.sweep.PurgeAll(ctx)
		c.clearCaches()
		c.publish(Snapshot{State: Unauthenticated})
	}
	c.transition.Unlock()

	// The provider still believes in p; make it agree with us.
	if err != nil && p != nil {
		if serr := c.ids.SignOut(ctx); serr != nil {
			c.log.Warn(ctx, "remote sign-out failed", "error", serr)
		}
	}
}

func (c *Controller) safeApply(ctx context.Context, p *models.Principal) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("identity listener panic: %v", r)
		}
	}()
	if p == nil {
		return c.signedOut(ctx)
	}
	return c.signedIn(ctx, *p)
}

func (c *Controller) signedIn(ctx context.Context, p models.Principal) error {
	prev, err := c.sweep.ActiveOwner(ctx)
	if err != nil {
		return err
	}
	if prev != p.OwnerID {
		if err := c.sweep.SweepOnOwnerChange(ctx, prev, p.OwnerID); err != nil {
			return err
		}
	}
	if found, err := c.sweep.SweepForeignOwners(ctx, p.OwnerID); err != nil {
		return err
	} else if len(found) > 0 {
		c.log.Info(ctx, "removed foreign owner data", "count", len(found))
	}
	if err := c.sweep.RecordActiveOwner(ctx, p.OwnerID); err != nil {
		return err
	}

	c.clearCaches()
	c.publish(Snapshot{State: Authenticated, Principal: &p})
	c.log.Info(ctx, "signed in", "owner", p.OwnerID)
	return nil
}

func (c *Controller) signedOut(ctx context.Context) error {
	prev, err := c.sweep.ActiveOwner(ctx)
	if err != nil {
		return err
	}
	if prev != "" {
		if err := c.sweep.SweepOwner(ctx, prev); err != nil {
			return err
		}
	}
	c.clearCaches()
	if err := c.sweep.ForgetActiveOwner(ctx); err != nil {
		return err
	}
	c.publish(Snapshot{State: Unauthenticated})
	return nil
}

func (c *Controller) clearCaches() {
	for _, cc := range c.caches {
		cc.ClearAll()
	}
}

func (c *Controller) publish(s Snapshot) {
	c.mu.Lock()
	c.snap = Snapshot{State: s.State, Principal: clone(s.Principal)}
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(Snapshot{State: s.State, Principal: clone(s.Principal)})
	}
}

func clone(p *models.Principal) *models.Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
