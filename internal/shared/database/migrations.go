package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"galaxy-explorer/internal/shared/config"
)

// RunMigrations applies the .sql files of the configured migrations directory
// in lexical order. Each file runs in its own transaction and is recorded in
// schema_migrations so it is applied once.
func (db *DB) RunMigrations(ctx context.Context) error {
	dir := "migrations"
	if config.GlobalConfig != nil && config.GlobalConfig.Database.MigrationsPath != "" {
		dir = config.GlobalConfig.Database.MigrationsPath
	}
	return db.migrate(ctx, os.DirFS(dir))
}

func (db *DB) migrate(ctx context.Context, fsys fs.FS) error {
	logger := slog.With("component", "migrations")

	if _, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := migrationFiles(fsys)
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	ran := 0
	for _, name := range files {
		if applied[name] {
			continue
		}
		if err := db.apply(ctx, fsys, name); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", name, err)
		}
		ran++
	}

	logger.Info("Migrations up to date", "found", len(files), "applied", ran)
	return nil
}

// migrationFiles lists the top-level .sql files of fsys in lexical order.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (db *DB) apply(ctx context.Context, fsys fs.FS, name string) error {
	logger := slog.With("component", "migrations", "operation", "apply", "migration", name)

	content, err := fs.ReadFile(fsys, path.Clean(name))
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
			logger.Error("Failed to roll back migration", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("Migration applied", "size_bytes", len(content))
	return nil
}
