// Package migrations applies the versioned Postgres schema at startup.
package migrations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Migration is one forward-only schema step.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx pgx.Tx) error
}

// DB is the part of *pgxpool.Pool the migrator needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var registered []Migration

func register(m Migration) {
	registered = append(registered, m)
}

// All returns the registered migrations ordered by version.
func All() []Migration {
	all := make([]Migration, len(registered))
	copy(all, registered)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Version < all[j].Version
	})
	return all
}

// Run applies every migration newer than the recorded schema version,
// each in its own transaction.
func Run(ctx context.Context, logger zerolog.Logger, db DB, migrations []Migration) error {
	const createSchemaVersionQuery = `
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL
)
`
	_, err := db.Exec(ctx, createSchemaVersionQuery)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	const selectSchemaVersionQuery = `SELECT COALESCE(MAX(version), 0) FROM schema_version`
	err = db.QueryRow(ctx, selectSchemaVersionQuery).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	logger.Debug().
		Int("version", current).
		Msg("read schema version")

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		logger.Info().
			Int("version", m.Version).
			Str("description", m.Description).
			Msg("applying migration")

		err = apply(ctx, db, m)
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		applied++
	}

	logger.Info().
		Int("applied", applied).
		Msg("schema is up to date")
	return nil
}

func apply(ctx context.Context, db DB, m Migration) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = m.Up(ctx, tx)
	if err != nil {
		return err
	}

	const insertSchemaVersionQuery = `
INSERT INTO schema_version (version, description, applied_at)
VALUES ($1, $2, $3)
`
	_, err = tx.Exec(ctx, insertSchemaVersionQuery, m.Version, m.Description, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}
	return tx.Commit(ctx)
}
