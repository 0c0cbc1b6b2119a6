// Package cache provides the short-lived, per-user message list cache.
// It is an explicit dependency injected into the message service, never a
// package-level singleton: entries expire independently and there is no
// teardown ordering to respect.
package cache

import (
	"sync"
	"time"

	"courier/domain"
)

// DefaultTTL bounds read-after-write staleness when invalidation is the
// only freshness mechanism left (e.g. writes from another process).
const DefaultTTL = 15 * time.Minute

type entry struct {
	messages  []domain.Message
	expiresAt time.Time
}

// MessageCache is a TTL map keyed by user ID.
// A stale read within the TTL window is acceptable; a lost invalidation is
// not, so Invalidate is called by the writer inside the same logical
// operation as the durable write.
type MessageCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMessageCache(ttl time.Duration) *MessageCache {
	return &MessageCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached message list for userID, or false on a miss.
// Expired entries count as misses and are dropped lazily.
func (c *MessageCache) Get(userID string) ([]domain.Message, bool) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return nil, false
	}
	return e.messages, true
}

// Set stores the message list for userID with a fresh expiry.
func (c *MessageCache) Set(userID string, messages []domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = entry{
		messages:  messages,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the entries of every given user so the next read
// observes writes before the TTL elapses.
func (c *MessageCache) Invalidate(userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id)
	}
}
