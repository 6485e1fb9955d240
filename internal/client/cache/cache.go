// Package cache holds the last fetched listing per (owner, kind).
//
// Concurrent Fetch calls for the same key share one in-flight request.
// Every request is tagged with the cache epoch and the key's generation at
// the moment it was issued; ClearAll, Invalidate and Put move those forward,
// so a result that lands after any of them is handed to its caller but never
// stored.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type State int

const (
	NotLoaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "not loaded"
	}
}

// Entry is a snapshot of one cache slot. Rows is nil unless State is Loaded;
// a loaded empty listing has a non-nil, zero-length Rows.
type Entry[T any] struct {
	State    State
	Rows     []T
	LoadedAt time.Time
}

type key struct {
	owner string
	kind  string
}

type slot[T any] struct {
	rows     []T
	loadedAt time.Time
}

// DefaultFetchTimeout bounds a shared fetch once it no longer follows the
// context of the caller that started it.
const DefaultFetchTimeout = 30 * time.Second

type Cache[T any] struct {
	mu           sync.Mutex
	epoch        uint64
	gens         map[key]uint64
	entries      map[key]slot[T]
	loading      map[key]int
	group        singleflight.Group
	now          func() time.Time
	fetchTimeout time.Duration
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		gens:         make(map[key]uint64),
		entries:      make(map[key]slot[T]),
		loading:      make(map[key]int),
		now:          time.Now,
		fetchTimeout: DefaultFetchTimeout,
	}
}

func (c *Cache[T]) Get(owner, kind string) Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{owner, kind}
	if s, ok := c.entries[k]; ok {
		return Entry[T]{State: Loaded, Rows: clone(s.rows), LoadedAt: s.loadedAt}
	}
	if c.loading[k] > 0 {
		return Entry[T]{State: Loading}
	}
	return Entry[T]{State: NotLoaded}
}

// Put replaces the listing for (owner, kind).
func (c *Cache[T]) Put(owner, kind string, rows []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{owner, kind}
	c.gens[k]++
	c.entries[k] = slot[T]{rows: clone(rows), loadedAt: c.now()}
}

func (c *Cache[T]) Invalidate(owner, kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{owner, kind}
	c.gens[k]++
	delete(c.entries, k)
}

// ClearAll drops every entry and orphans every in-flight fetch.
func (c *Cache[T]) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	clear(c.entries)
}

// Fetch returns the cached listing, loading it with fetch when absent.
// The shared fetch keeps the values of the starting caller's context but not
// its cancellation; it is bounded by the fetch timeout instead. A caller whose
// ctx ends stops waiting with ctx.Err() and leaves the fetch to the others.
func (c *Cache[T]) Fetch(ctx context.Context, owner, kind string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	k := key{owner, kind}

	c.mu.Lock()
	if s, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return clone(s.rows), nil
	}
	epoch, gen := c.epoch, c.gens[k]
	c.loading[k]++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.loading[k]--; c.loading[k] <= 0 {
			delete(c.loading, k)
		}
		c.mu.Unlock()
	}()

	flight := fmt.Sprintf("%s\x00%s\x00%d\x00%d", owner, kind, epoch, gen)
	ch := c.group.DoChan(flight, func() (any, error) {
		// A caller that missed the previous flight by a hair finds its rows here.
		c.mu.Lock()
		if s, ok := c.entries[k]; ok && c.current(k, epoch, gen) {
			c.mu.Unlock()
			return s.rows, nil
		}
		c.mu.Unlock()

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		rows, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []T{}
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current(k, epoch, gen) {
			c.entries[k] = slot[T]{rows: clone(rows), loadedAt: c.now()}
		}
		return rows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]T)), nil
	}
}

// current reports whether a request issued at (epoch, gen) may still store.
func (c *Cache[T]) current(k key, epoch, gen uint64) bool {
	return c.epoch == epoch && c.gens[k] == gen
}

func clone[T any](rows []T) []T {
	if rows == nil {
		return nil
	}
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}
