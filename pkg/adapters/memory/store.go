// Package memory provides in-process adapters: a session snapshot store and
// a record-persister stub. Both are safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/carebridge/intake/pkg/domain"
)

// Store implements ports.StateStore in memory.
type Store struct {
	data map[string]*domain.SessionSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.SessionSnapshot),
	}
}

// Save persists the snapshot in memory. The snapshot is copied so later
// mutation by the caller cannot leak into the store.
func (s *Store) Save(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error {
	copied := copySnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves a copy of the snapshot from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySnapshot(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

func copySnapshot(snap *domain.SessionSnapshot) *domain.SessionSnapshot {
	copied := *snap
	copied.Topics = make(map[string]any, len(snap.Topics))
	for k, v := range snap.Topics {
		copied.Topics[k] = v
	}
	copied.History = make([]string, len(snap.History))
	copy(copied.History, snap.History)
	return &copied
}
