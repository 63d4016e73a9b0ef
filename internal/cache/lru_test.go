package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestLRU(size int, ttl time.Duration) (*LRU[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, 2, c.Size())
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(2 * time.Minute)
	c.Set("c", "3")

	assert.Equal(t, 2, c.CleanExpired())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUSwap(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)
	_, had := c.Swap("u", "healthy")
	assert.False(t, had)

	prev, had := c.Swap("u", "overspending")
	assert.True(t, had)
	assert.Equal(t, "healthy", prev)

	c.Delete("u")
	_, had = c.Swap("u", "healthy")
	assert.False(t, had)
}

type countingCleaner struct{ n int32 }

func (c *countingCleaner) CleanExpired() int { atomic.AddInt32(&c.n, 1); return 1 }

func TestRunCleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cl := &countingCleaner{}
	var cleaned int32

	done := make(chan error, 1)
	go func() {
		done <- RunCleanup(ctx, time.Millisecond, func(n int) { atomic.AddInt32(&cleaned, int32(n)) }, cl)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&cl.n) >= 2 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&cleaned), int32(2))
}
