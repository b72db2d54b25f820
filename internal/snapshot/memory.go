package snapshot

import (
	"context"
	"sync"
	"time"

	"pos-system/internal/models"
)

// MemoryStore keeps snapshots in process memory. Used in tests and for
// running the register without Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]models.CartSnapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]models.CartSnapshot)}
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, snap *models.CartSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[sessionID] = *snap
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string, maxAge time.Duration) (*models.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Since(snap.SavedAt) > maxAge {
		delete(s.snaps, sessionID)
		return nil, nil
	}
	result := snap
	return &result, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, sessionID)
	return nil
}
