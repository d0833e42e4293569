// Package querycache holds cached views keyed by their canonical query key,
// each with a staleness flag. Invalidation is explicit.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Entry is one cached view.
type Entry[V any] struct {
	Value     V
	Stale     bool
	FetchedAt time.Time
}

// Snapshot is a pre-image of a set of views, as captured by Cache.Snapshot.
type Snapshot[V any] map[string]Entry[V]

// Keys returns the keys present in the snapshot.
func (s Snapshot[V]) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Cache is safe for concurrent use. Values are stored and returned through
// the clone function so callers never share state with the cache.
//
// Every write to a key gives it a new version. Keys held by a pending
// mutation keep their optimistic value: background refreshes that land
// while a key is held, or after it was rewritten, only mark it stale.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]
	meta    map[string]keyMeta
	version uint64
	clone   func(V) V
	now     func() time.Time
}

type keyMeta struct {
	version uint64
	holds   int
}

// New creates a cache. clone deep-copies a value; nil means values are
// copied by assignment.
func New[V any](clone func(V) V) *Cache[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Cache[V]{
		entries: make(map[string]Entry[V]),
		meta:    make(map[string]keyMeta),
		clone:   clone,
		now:     time.Now,
	}
}

func (c *Cache[V]) copyEntry(e Entry[V]) Entry[V] {
	e.Value = c.clone(e.Value)
	return e
}

// put stores e under key and bumps the key's version. c.mu must be held.
func (c *Cache[V]) put(key string, e Entry[V]) {
	c.version++
	m := c.meta[key]
	m.version = c.version
	c.meta[key] = m
	c.entries[key] = e
}

// Get returns the entry stored under key.
func (c *Cache[V]) Get(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	return c.copyEntry(e), true
}

// Set stores a fresh value under key.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, Entry[V]{Value: c.clone(v), FetchedAt: c.now()})
}

// Delete evicts key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	if c.meta[key].holds == 0 {
		delete(c.meta, key)
	}
}

// Keys returns every cached key matching match. A nil match selects all.
func (c *Cache[V]) Keys(match func(key string) bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k := range c.entries {
		if match == nil || match(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Snapshot captures the entries whose keys satisfy match.
func (c *Cache[V]) Snapshot(match func(key string) bool) Snapshot[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make(Snapshot[V])
	for k, e := range c.entries {
		if match == nil || match(k) {
			snap[k] = c.copyEntry(e)
		}
	}
	return snap
}

// Hold pins keys for a pending mutation and returns their current versions.
// Each Hold must be paired with a Release of the same keys.
func (c *Cache[V]) Hold(keys []string) map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	versions := make(map[string]uint64, len(keys))
	for _, k := range keys {
		m := c.meta[k]
		m.holds++
		c.meta[k] = m
		versions[k] = m.version
	}
	return versions
}

// Release drops one hold from each key.
func (c *Cache[V]) Release(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		m, ok := c.meta[k]
		if !ok {
			continue
		}
		if m.holds > 0 {
			m.holds--
		}
		if _, cached := c.entries[k]; !cached && m.holds == 0 {
			delete(c.meta, k)
			continue
		}
		c.meta[k] = m
	}
}

// Rollback puts snapshotted entries back. held carries the versions
// returned by Hold; a key written by anyone else since then is restored
// stale, as is a key that was stale when rolled back. Keys evicted since
// the snapshot stay evicted. It returns the keys restored stale.
func (c *Cache[V]) Rollback(snap Snapshot[V], held map[string]uint64) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var stale []string
	for k, e := range snap {
		cur, ok := c.entries[k]
		if !ok {
			continue
		}
		restored := c.copyEntry(e)
		if cur.Stale || c.meta[k].version != held[k] {
			restored.Stale = true
		}
		if restored.Stale {
			stale = append(stale, k)
		}
		c.put(k, restored)
	}
	return stale
}

// Update rewrites the value of each listed key that is still cached. The
// staleness flag and fetch time are kept.
func (c *Cache[V]) Update(keys []string, fn func(key string, v V) V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		e, ok := c.entries[k]
		if !ok {
			continue
		}
		e.Value = c.clone(fn(k, c.clone(e.Value)))
		c.put(k, e)
	}
}

// UpdateMatching is Update over every key satisfying match.
func (c *Cache[V]) UpdateMatching(match func(key string) bool, fn func(key string, v V) V) {
	c.Update(c.Keys(match), fn)
}

// Invalidate marks the listed keys stale. It returns how many were cached.
func (c *Cache[V]) Invalidate(keys ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.Stale = true
			c.entries[k] = e
			n++
		}
	}
	return n
}

// InvalidatePrefix marks every key starting with prefix stale.
func (c *Cache[V]) InvalidatePrefix(prefix string) int {
	return c.Invalidate(c.Keys(HasPrefix(prefix))...)
}

// Stale returns the keys currently marked stale.
func (c *Cache[V]) Stale() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k, e := range c.entries {
		if e.Stale {
			keys = append(keys, k)
		}
	}
	return keys
}

// Fetch returns the cached value for key when it is fresh, otherwise it calls
// load and stores the result. A failed load leaves the cache unchanged.
func (c *Cache[V]) Fetch(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if e, ok := c.Get(key); ok && !e.Stale {
		return e.Value, nil
	}
	return c.Refresh(ctx, key, load)
}

// Refresh always calls load. The result is stored unless key was rewritten
// while loading or is held by a pending mutation; then the cached value is
// kept, marked stale, and returned instead.
func (c *Cache[V]) Refresh(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	started := c.meta[key].version
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.entries[key]
	if m := c.meta[key]; ok && (m.holds > 0 || m.version != started) {
		cur.Stale = true
		c.entries[key] = cur
		return c.clone(cur.Value), nil
	}
	c.put(key, Entry[V]{Value: c.clone(v), FetchedAt: c.now()})
	return c.clone(v), nil
}

// HasPrefix is a key matcher for Snapshot, Keys and UpdateMatching.
func HasPrefix(prefix string) func(string) bool {
	return func(key string) bool { return strings.HasPrefix(key, prefix) }
}

// Exact matches the listed keys only.
func Exact(keys ...string) func(string) bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(key string) bool { return set[key] }
}
