package authorization

import (
	"context"
	"strings"
	"sync"
	"time"

	"medgate/internal/authgate/models"
)

type entry struct {
	record    models.AuthorizationRecord
	expiresAt time.Time
}

// InMemoryStore keeps authorization records in memory. Expiry is enforced
// lazily on read and by the cleanup worker's periodic sweep.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]entry
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]entry)}
}

func (s *InMemoryStore) Put(_ context.Context, record *models.AuthorizationRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(record.Email)] = entry{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, email string) (*models.AuthorizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[key(email)]
	if !ok || e.expiresAt.Before(time.Now()) {
		return nil, ErrNotFound
	}
	record := e.record
	return &record, nil
}

func (s *InMemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key(email))
	return nil
}

// DeleteExpired removes all records past their TTL as of the given time.
// The time is injected for testability.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for k, e := range s.records {
		if e.expiresAt.Before(now) {
			delete(s.records, k)
			deleted++
		}
	}
	return deleted, nil
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
