package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(v ...string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) { return v, nil }
}

func TestGet_NotLoadedVsLoadedEmpty(t *testing.T) {
	c := New[string]()

	e := c.Get("u1", "subjects")
	assert.Equal(t, NotLoaded, e.State)
	assert.Nil(t, e.Rows)

	_, err := c.Fetch(context.Background(), "u1", "subjects", rowsOf())
	require.NoError(t, err)

	e = c.Get("u1", "subjects")
	assert.Equal(t, Loaded, e.State)
	assert.NotNil(t, e.Rows)
	assert.Empty(t, e.Rows)
	assert.False(t, e.LoadedAt.IsZero())
}

func TestPutInvalidateClearAll(t *testing.T) {
	c := New[string]()

	c.Put("u1", "subjects", []string{"a"})
	c.Put("u1", "sessions", []string{"b"})
	c.Put("u2", "subjects", []string{"c"})

	c.Invalidate("u1", "subjects")
	assert.Equal(t, NotLoaded, c.Get("u1", "subjects").State)
	assert.Equal(t, Loaded, c.Get("u1", "sessions").State)

	c.ClearAll()
	assert.Equal(t, NotLoaded, c.Get("u1", "sessions").State)
	assert.Equal(t, NotLoaded, c.Get("u2", "subjects").State)
}

func TestOwnersAreIsolated(t *testing.T) {
	c := New[string]()
	c.Put("u1", "subjects", []string{"mine"})

	assert.Equal(t, NotLoaded, c.Get("u2", "subjects").State)
}

func TestFetch_UsesCachedRows(t *testing.T) {
	c := New[string]()
	var calls int
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"x"}, nil
	}

	for i := 0; i < 3; i++ {
		rows, err := c.Fetch(context.Background(), "u1", "subjects", fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, rows)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c := New[string]()
	boom := errors.New("offline")

	_, err := c.Fetch(context.Background(), "u1", "subjects", func(context.Context) ([]string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, NotLoaded, c.Get("u1", "subjects").State)
}

func TestFetch_ReturnsCopies(t *testing.T) {
	c := New[string]()
	rows, err := c.Fetch(context.Background(), "u1", "subjects", rowsOf("a", "b"))
	require.NoError(t, err)

	rows[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.Get("u1", "subjects").Rows)

	got := c.Get("u1", "subjects").Rows
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.Get("u1", "subjects").Rows)
}

func TestFetch_ConcurrentCallersShareOneRequest(t *testing.T) {
	c := New[string]()
	release := make(chan struct{})
	var calls atomic.Int32

	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"row"}, nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([][]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, err := c.Fetch(context.Background(), "u1", "sessions", fetch)
			assert.NoError(t, err)
			results[i] = rows
		}(i)
	}

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.loading[key{"u1", "sessions"}] == n
	}, time.Second, time.Millisecond)
	assert.Equal(t, Loading, c.Get("u1", "sessions").State)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, []string{"row"}, r)
	}
}

func TestFetch_ResultAfterClearAllIsDiscarded(t *testing.T) {
	c := New[string]()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan []string)
	go func() {
		rows, _ := c.Fetch(context.Background(), "u1", "subjects", func(context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"u1-row"}, nil
		})
		done <- rows
	}()

	<-started
	c.ClearAll()
	close(release)

	assert.Equal(t, []string{"u1-row"}, <-done)
	assert.Equal(t, NotLoaded, c.Get("u1", "subjects").State)
}

func TestFetch_InvalidateDuringFlightStartsFreshRequest(t *testing.T) {
	c := New[string]()
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = c.Fetch(context.Background(), "u1", "subjects", func(context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"before write"}, nil
		})
	}()
	<-started

	c.Invalidate("u1", "subjects")

	rows, err := c.Fetch(context.Background(), "u1", "subjects", rowsOf("after write"))
	require.NoError(t, err)
	assert.Equal(t, []string{"after write"}, rows)

	close(release)
	require.Eventually(t, func() bool {
		return c.Get("u1", "subjects").State == Loaded
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"after write"}, c.Get("u1", "subjects").Rows)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not loaded", NotLoaded.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
}

func TestFetch_StarterCancelDoesNotFailOthers(t *testing.T) {
	c := New[string]()
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]string, error) {
		close(started)
		select {
		case <-release:
			return []string{"row"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	starterErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "u1", "sessions", fetch)
		starterErr <- err
	}()
	<-started

	waiter := make(chan []string, 1)
	go func() {
		rows, err := c.Fetch(context.Background(), "u1", "sessions", fetch)
		assert.NoError(t, err)
		waiter <- rows
	}()
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.loading[key{"u1", "sessions"}] == 2
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-starterErr, context.Canceled)

	close(release)
	assert.Equal(t, []string{"row"}, <-waiter)
	assert.Equal(t, Loaded, c.Get("u1", "sessions").State)
}

func TestFetch_SharedFetchIsBoundedByTimeout(t *testing.T) {
	c := New[string]()
	c.fetchTimeout = 10 * time.Millisecond

	_, err := c.Fetch(context.Background(), "u1", "sessions", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, NotLoaded, c.Get("u1", "sessions").State)
}
