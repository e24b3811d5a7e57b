package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = fmt.Errorf("session not found")

// Session couples a session id with its state and expiry.
type Session struct {
	ID        string
	State     *State
	ExpiresAt time.Time
}

// Store defines how sessions are stored and retrieved.
type Store interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string) error
}

// MemoryStore is an in-memory Store implementation. Sessions are
// process-scoped and vanish on restart, which is acceptable here.
type MemoryStore struct {
	sessions map[string]*Session
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewMemoryStore creates a MemoryStore with the given session TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create allocates a new session with default state.
func (s *MemoryStore) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.New().String(),
		State:     NewState(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session for id, or ErrNotFound if it is unknown or
// has expired. Expired sessions are dropped on access.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session for id. Deleting an absent session is not
// an error.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
