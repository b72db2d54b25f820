// Package snapshot persists cart drafts between register sessions. A draft is
// written on every cart mutation and read back once when a session first
// touches the register; snapshots older than the staleness cutoff are
// discarded instead of restored.
package snapshot

import (
	"context"
	"time"

	"pos-system/internal/models"
)

// DefaultMaxAge is the staleness cutoff for restored drafts
const DefaultMaxAge = 24 * time.Hour

// Store saves and restores per-session cart snapshots
type Store interface {
	// Save writes the snapshot for a session, replacing any previous one.
	Save(ctx context.Context, sessionID string, snap *models.CartSnapshot) error
	// Load returns the session's snapshot, or nil when none exists or the
	// stored one is older than maxAge.
	Load(ctx context.Context, sessionID string, maxAge time.Duration) (*models.CartSnapshot, error)
	// Delete removes the session's snapshot if present.
	Delete(ctx context.Context, sessionID string) error
}
