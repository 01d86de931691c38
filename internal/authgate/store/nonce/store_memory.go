// Package nonce enforces one-time use of approval references. An approval
// link is otherwise stateless and would remain replayable until its TTL
// lapses; consuming its jti here closes that window.
package nonce

import (
	"context"
	"sync"
	"time"
)

// Store records consumed approval nonces for the lifetime of the link.
type Store interface {
	// Consume marks the nonce as used. It reports true on first use and
	// false when the nonce was already consumed.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	// Release forgets a consumed nonce so the link works again. Callers use
	// it to undo a Consume whose follow-up commit failed.
	Release(ctx context.Context, jti string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// InMemoryStore tracks consumed nonces in memory.
type InMemoryStore struct {
	mu       sync.Mutex
	consumed map[string]time.Time
}

// NewInMemoryStore constructs an empty nonce store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{consumed: make(map[string]time.Time)}
}

func (s *InMemoryStore) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiry, ok := s.consumed[jti]; ok && expiry.After(time.Now()) {
		return false, nil
	}
	s.consumed[jti] = time.Now().Add(ttl)
	return true, nil
}

func (s *InMemoryStore) Release(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.consumed, jti)
	return nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for jti, expiry := range s.consumed {
		if expiry.Before(now) {
			delete(s.consumed, jti)
			deleted++
		}
	}
	return deleted, nil
}
