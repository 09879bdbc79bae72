package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"

	"github.com/eugenenazirov/pallet-planner/internal/presentation"
)

// SessionStore keeps presentation sessions between requests.
type SessionStore interface {
	Create(session *presentation.Session) string
	Get(id string) (*presentation.Session, error)
	Delete(id string) error
	Len() int
}

// MemorySessionStore is a bounded, in-process session store. Idle sessions
// expire after the configured TTL; nothing is persisted.
type MemorySessionStore struct {
	cache *otter.Cache[string, *presentation.Session]
	newID func() string
}

// NewMemorySessionStore creates a store holding at most capacity sessions.
// A ttl of zero disables expiry.
func NewMemorySessionStore(capacity int, ttl time.Duration) (*MemorySessionStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("session store: %w", ErrInvalidCapacity)
	}

	opts := &otter.Options[string, *presentation.Session]{
		MaximumSize: capacity,
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryAccessing[string, *presentation.Session](ttl)
	}

	cache, err := otter.New(opts)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	return &MemorySessionStore{
		cache: cache,
		newID: uuid.NewString,
	}, nil
}

// Create stores session under a fresh id and returns the id.
func (s *MemorySessionStore) Create(session *presentation.Session) string {
	id := s.newID()
	s.cache.Set(id, session)
	return id
}

// Get looks a session up by id.
func (s *MemorySessionStore) Get(id string) (*presentation.Session, error) {
	id = strings.TrimSpace(id)
	if session, ok := s.cache.GetIfPresent(id); ok {
		return session, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(id string) error {
	if _, ok := s.cache.Invalidate(strings.TrimSpace(id)); !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Len reports the approximate number of stored sessions.
func (s *MemorySessionStore) Len() int {
	return s.cache.EstimatedSize()
}
