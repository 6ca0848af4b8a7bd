package session

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used when Redis is unavailable
// and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the current session, or ErrNoSession.
func (m *MemoryStore) Get(_ context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, ErrNoSession
	}
	s := *m.current
	return &s, nil
}

// Set replaces the stored session.
func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	copied := *s
	m.mu.Lock()
	m.current = &copied
	m.mu.Unlock()
	return nil
}

// Clear removes the stored session.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}
