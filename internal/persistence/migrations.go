package persistence

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS kv_schema_versions (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// RunMigrations applies each embedded SQL file once, in file name order,
// recording applied versions in kv_schema_versions.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		return errors.New("run migrations: nil pool")
	}
	if _, err := pool.Exec(ctx, createVersionTable); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	names, err := migrationNames(migrationFiles)
	if err != nil {
		return err
	}

	applied := 0
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		done, err := applyMigration(ctx, pool, version, name)
		if err != nil {
			return err
		}
		if done {
			applied++
			logger.Info("applied migration", zap.String("version", version))
		}
	}
	logger.Info("schema up to date", zap.Int("applied", applied), zap.Int("known", len(names)))
	return nil
}

func migrationNames(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	for i := range names {
		names[i] = strings.TrimPrefix(names[i], "migrations/")
	}
	sort.Strings(names)
	return names, nil
}

// applyMigration runs one file inside a transaction. It reports false when
// the version was already recorded.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, version, name string) (bool, error) {
	content, err := migrationFiles.ReadFile("migrations/" + name)
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", name, err)
	}

	applied := false
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO kv_schema_versions (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, version)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("apply migration %s: %w", name, err)
	}
	return applied, nil
}
