package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pos-system/internal/logger"
)

const migrationsTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id SERIAL PRIMARY KEY,
		migration_name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

// RunMigrations applies every pending .sql file from dir, in lexical order.
// Each migration runs in one transaction together with the row recording it,
// so a failed migration leaves no partial schema behind.
func (db *DB) RunMigrations(ctx context.Context, dir string) error {
	requestID := logger.GenerateRequestID()

	if err := db.Exec(ctx, migrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := listMigrations(dir)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	var ran int
	for _, name := range names {
		if applied[name] {
			continue
		}
		if err := db.applyMigration(ctx, filepath.Join(dir, name), name); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		ran++
		db.logger.Info("migration_applied", fmt.Sprintf("Applied migration %s", name), requestID, map[string]interface{}{
			"migration": name,
		})
	}

	db.logger.Info("migrations_complete", "POS schema is up to date", requestID, map[string]interface{}{
		"applied": ran,
		"known":   len(names),
	})
	return nil
}

// listMigrations returns the .sql files directly under dir, sorted by name
func listMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// appliedMigrations returns the set of migrations already recorded
func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := db.Query(ctx, "SELECT migration_name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// applyMigration executes one migration file and records it, atomically
func (db *DB) applyMigration(ctx context.Context, path, name string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (migration_name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit(ctx)
}
