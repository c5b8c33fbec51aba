package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docport/internal/access"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the token is unknown or expired
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore keeps sessions in a process-local map. Sessions are lost on
// restart and invisible to other processes; use the Redis store when
// instances must share session state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionToken]*access.Session
}

// NewInMemory constructs an empty in-memory session store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionToken]*access.Session)}
}

// Put inserts a session, last-writer-wins on token collision.
func (s *InMemoryStore) Put(_ context.Context, session *access.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

// Get returns the session for a token. Expired entries are treated as absent
// and lazily evicted.
func (s *InMemoryStore) Get(_ context.Context, token id.SessionToken, now time.Time) (*access.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	if session.Expired(now) {
		s.mu.Lock()
		// Re-check under the write lock; another request may have replaced it.
		if current, still := s.sessions[token]; still && current.Expired(now) {
			delete(s.sessions, token)
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("session expired: %w", sentinel.ErrNotFound)
	}
	return session, nil
}

// DeleteExpired removes all sessions that have expired as of the given time.
// The time parameter is injected for testability (no hidden time.Now() calls).
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports the current number of stored sessions, expired or not.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
