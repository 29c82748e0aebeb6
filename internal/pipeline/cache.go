package pipeline

import (
	"sync"
)

// Cache holds refreshed snapshots keyed by their refresh token, replacing
// the implicit recompute-once-per-run memoization with an explicit,
// invalidatable store. The most recently stored snapshot is the current one.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	current   string
}

// NewCache creates an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*Snapshot)}
}

// Store records a snapshot under its token and makes it current.
func (c *Cache) Store(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[s.Token] = s
	c.current = s.Token
}

// Get returns the snapshot stored under a token.
func (c *Cache) Get(token string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.snapshots[token]
	return s, ok
}

// Current returns the most recently stored snapshot.
func (c *Cache) Current() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.snapshots[c.current]
	return s, ok
}

// Invalidate drops the snapshot stored under a token. Dropping the current
// snapshot leaves the cache with no current until the next Store.
func (c *Cache) Invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, token)
	if c.current == token {
		c.current = ""
	}
}

// InvalidateAll drops every stored snapshot.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots = make(map[string]*Snapshot)
	c.current = ""
}
