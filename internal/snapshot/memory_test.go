package snapshot

import (
	"context"
	"testing"
	"time"

	"pos-system/internal/models"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	snap := &models.CartSnapshot{
		Draft:   models.NewOrderDraft(),
		SavedAt: time.Now().UTC(),
	}
	snap.Draft.Note = "para recoger"

	if err := store.Save(ctx, "session-1", snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx, "session-1", DefaultMaxAge)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load returned nil for a fresh snapshot")
	}
	if loaded.Draft.Note != "para recoger" {
		t.Errorf("loaded draft note = %q", loaded.Draft.Note)
	}
}

func TestMemoryStore_LoadMissing(t *testing.T) {
	store := NewMemoryStore()

	loaded, err := store.Load(context.Background(), "unknown", DefaultMaxAge)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load returned a snapshot for an unknown session")
	}
}

func TestMemoryStore_StaleSnapshotDiscarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stale := &models.CartSnapshot{
		Draft:   models.NewOrderDraft(),
		SavedAt: time.Now().UTC().Add(-25 * time.Hour),
	}
	if err := store.Save(ctx, "session-1", stale); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx, "session-1", DefaultMaxAge)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load restored a snapshot older than the cutoff")
	}

	// The stale row is discarded, not kept around
	again, err := store.Load(ctx, "session-1", 100*DefaultMaxAge)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if again != nil {
		t.Errorf("stale snapshot was not discarded on first load")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	snap := &models.CartSnapshot{Draft: models.NewOrderDraft(), SavedAt: time.Now().UTC()}
	if err := store.Save(ctx, "session-1", snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	loaded, err := store.Load(ctx, "session-1", DefaultMaxAge)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Errorf("snapshot still present after Delete")
	}
}
