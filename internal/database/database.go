// Package database opens the PostgreSQL pool behind the stores and applies
// the embedded goose migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// connectAttempts bounds the pings Connect makes before giving up.
const connectAttempts = 5

// Pool sizes the database/sql connection pool.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool suits a single API instance.
var DefaultPool = Pool{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
}

// Connect opens a pool on dsn and pings it. A failed ping is retried with
// doubling delays, so the API can start next to a database that is still
// booting; ctx bounds the whole wait.
func Connect(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	delay := 250 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			db.Close()
			return nil, fmt.Errorf("database ping after %d attempts: %w", attempt, err)
		}

		slog.Warn("database not ready, retrying", "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("database ping: %w", errors.Join(err, ctx.Err()))
		case <-time.After(delay):
		}
		delay *= 2
	}

	slog.Info("database connected",
		"host", cfg.Host,
		"database", cfg.Database,
		"max_open_conns", pool.MaxOpenConns,
	)
	return db, nil
}

// Migrate applies every pending migration embedded in the binary and logs
// each one it ran. Concurrent callers are serialized by a PostgreSQL
// advisory lock.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys, goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied",
			"version", res.Source.Version,
			"file", res.Source.Path,
			"duration", res.Duration,
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	slog.Info("database schema ready", "version", version, "applied", len(results))
	return nil
}
