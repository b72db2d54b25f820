package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pos-system/internal/database"
	"pos-system/internal/models"
)

// PostgresStore persists cart snapshots in the cart_snapshots table
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a snapshot store over the shared pool
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save upserts the session's snapshot
func (s *PostgresStore) Save(ctx context.Context, sessionID string, snap *models.CartSnapshot) error {
	draft, err := json.Marshal(snap.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.db.Exec(ctx, database.UpsertCartSnapshotSQL, sessionID, draft, snap.SavedAt); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Load returns the session's snapshot if one exists and is fresh enough.
// Stale rows are deleted rather than restored.
func (s *PostgresStore) Load(ctx context.Context, sessionID string, maxAge time.Duration) (*models.CartSnapshot, error) {
	var (
		draft   []byte
		savedAt time.Time
	)

	err := s.db.QueryRow(ctx, database.GetCartSnapshotSQL, sessionID).Scan(&draft, &savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	if time.Since(savedAt) > maxAge {
		if err := s.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	snap := &models.CartSnapshot{SavedAt: savedAt}
	if err := json.Unmarshal(draft, &snap.Draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return snap, nil
}

// Delete removes the session's snapshot
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.Exec(ctx, database.DeleteCartSnapshotSQL, sessionID); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
