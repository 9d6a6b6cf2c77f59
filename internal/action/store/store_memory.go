package store

import (
	"context"
	"sync"
	"time"

	domain "casebook/internal/jurisdiction/models"
	"casebook/pkg/platform/sentinel"
)

type cachedAction struct {
	action   domain.Action
	storedAt time.Time
}

// InMemoryStore is a process-local action cache with TTL expiration.
type InMemoryStore struct {
	mu      sync.RWMutex
	actions map[string]cachedAction
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryStore creates a store whose entries expire after ttl.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		actions: make(map[string]cachedAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save stores an action keyed by GUID.
func (s *InMemoryStore) Save(_ context.Context, action domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[action.GUID] = cachedAction{action: action, storedAt: s.now()}
	return nil
}

// Find returns a cached action, or sentinel.ErrNotFound when absent or expired.
func (s *InMemoryStore) Find(_ context.Context, guid string) (domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.actions[guid]; ok {
		if s.now().Sub(cached.storedAt) < s.ttl {
			return cached.action, nil
		}
	}
	return domain.Action{}, sentinel.ErrNotFound
}
