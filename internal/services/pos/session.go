package pos

import (
	"context"
	"sync"
	"time"

	"pos-system/internal/cart"
	"pos-system/internal/logger"
	"pos-system/internal/snapshot"
)

// sessions tracks one cart per register session. A cart is created on first
// touch, restored from its persisted snapshot when a fresh one exists.
type sessions struct {
	mu     sync.Mutex
	carts  map[string]*cart.Cart
	store  snapshot.Store
	maxAge time.Duration
	logger *logger.Logger
}

func newSessions(store snapshot.Store, maxAge time.Duration, log *logger.Logger) *sessions {
	return &sessions{
		carts:  make(map[string]*cart.Cart),
		store:  store,
		maxAge: maxAge,
		logger: log,
	}
}

// get returns the session's cart, restoring a persisted draft on first touch.
// A failed snapshot load is logged and treated as no snapshot: the draft is
// a convenience cache, not a system of record.
func (s *sessions) get(ctx context.Context, sessionID, requestID string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[sessionID]; ok {
		return c
	}

	snap, err := s.store.Load(ctx, sessionID, s.maxAge)
	if err != nil {
		s.logger.Error("snapshot_load_failed", "Failed to load cart snapshot", requestID, err, map[string]interface{}{
			"session_id": sessionID,
		})
		snap = nil
	}

	if snap != nil {
		s.logger.Debug("snapshot_restored", "Restored cart draft from snapshot", requestID, map[string]interface{}{
			"session_id": sessionID,
			"saved_at":   snap.SavedAt,
		})
	}

	c := cart.Restore(snap)
	s.carts[sessionID] = c
	return c
}
