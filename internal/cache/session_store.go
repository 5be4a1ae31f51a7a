package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/campuscharge/powerbank/backend-go/internal/config"
	lru "github.com/hashicorp/golang-lru/v2"
)

type sessionEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// SessionStore is a size-bounded LRU of per-client values that also expire after a TTL.
// onEvict runs for every value leaving the store, whether evicted, expired or removed.
type SessionStore[V any] struct {
	lru     *lru.Cache[string, *sessionEntry[V]]
	ttl     time.Duration
	clock   clock
	mu      sync.Mutex
	hits    atomic.Uint64
	misses  atomic.Uint64
	expired atomic.Uint64
}

func NewSessionStore[V any](cfg *config.CacheConfig, onEvict func(key string, value V)) (*SessionStore[V], error) {
	store := &SessionStore[V]{
		ttl:   cfg.GetSessionTTL(),
		clock: systemClock{},
	}

	cache, err := lru.NewWithEvict[string, *sessionEntry[V]](cfg.SessionLRUSize, func(key string, entry *sessionEntry[V]) {
		if onEvict != nil {
			onEvict(key, entry.value)
		}
	})
	if err != nil {
		return nil, err
	}
	store.lru = cache
	return store, nil
}

// Get returns the value and refreshes its expiry
func (s *SessionStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	entry, ok := s.lru.Get(key)
	if !ok {
		s.misses.Add(1)
		return zero, false
	}
	now := s.clock.Now()
	if now.After(entry.expiresAt) {
		s.expired.Add(1)
		s.lru.Remove(key)
		return zero, false
	}
	entry.expiresAt = now.Add(s.ttl)
	s.hits.Add(1)
	return entry.value, true
}

func (s *SessionStore[V]) Add(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Add(key, &sessionEntry[V]{
		value:     value,
		expiresAt: s.clock.Now().Add(s.ttl),
	})
}

func (s *SessionStore[V]) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(key)
}

func (s *SessionStore[V]) Len() int {
	return s.lru.Len()
}

// GetCacheStats returns statistics about lookups
func (s *SessionStore[V]) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"session_hits":    s.hits.Load(),
		"session_misses":  s.misses.Load(),
		"session_expired": s.expired.Load(),
	}
}

// Purge removes every session, running onEvict for each
func (s *SessionStore[V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Purge()
}
