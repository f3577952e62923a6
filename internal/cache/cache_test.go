package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(capacity int, ttl time.Duration) (*LRUCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(capacity, ttl)
	c.SetClock(clock.Now)
	return c, clock
}

func TestLRUCache_SetGet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)

	c.Set("a", 1)
	clock.Advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_GetOrRefresh(t *testing.T) {
	c, clock := newTestCache(10, time.Hour)
	calls := 0
	refresh := func() interface{} {
		calls++
		return calls
	}

	assert.Equal(t, 1, c.GetOrRefresh("k", 5*time.Minute, refresh))
	clock.Advance(4 * time.Minute)
	assert.Equal(t, 1, c.GetOrRefresh("k", 5*time.Minute, refresh))
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, c.GetOrRefresh("k", 5*time.Minute, refresh))
	assert.Equal(t, 2, calls)
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("short", 1)
	c.SetWithTTL("long", 2, time.Hour)
	clock.Advance(2 * time.Minute)
	c.CleanExpired()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
