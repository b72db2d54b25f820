package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"002_create_cart_snapshots.sql",
		"001_create_orders.sql",
		"003_create_workers.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}

	got, err := listMigrations(dir)
	if err != nil {
		t.Fatalf("listMigrations returned error: %v", err)
	}

	want := []string{
		"001_create_orders.sql",
		"002_create_cart_snapshots.sql",
		"003_create_workers.sql",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listMigrations() = %v, want %v", got, want)
	}
}

func TestListMigrations_MissingDir(t *testing.T) {
	if _, err := listMigrations(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("listMigrations accepted a missing directory")
	}
}
