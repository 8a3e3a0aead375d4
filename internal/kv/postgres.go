package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"log-power-tracker/internal/config"
)

const (
	createEntriesTableSQL = `CREATE TABLE IF NOT EXISTS kv_entries (
        key        TEXT PRIMARY KEY,
        value      BYTEA NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	upsertEntrySQL = `INSERT INTO kv_entries (key, value, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (key) DO UPDATE
    SET value = EXCLUDED.value,
        updated_at = EXCLUDED.updated_at;`

	selectEntrySQL = `SELECT value FROM kv_entries WHERE key = $1;`

	deleteEntrySQL = `DELETE FROM kv_entries WHERE key = $1;`

	notifyChangeSQL = `SELECT pg_notify('kv_changes', $1);`

	listenChangesSQL = `LISTEN kv_changes;`
)

// Postgres persists the key-value namespace in a kv_entries table and
// propagates writes over LISTEN/NOTIFY.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPool configures a PostgreSQL connection pool from runtime settings.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.postgres.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// NewPostgres wires a pgx pool into a Postgres store and ensures the
// backing table exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	store := &Postgres{pool: pool}
	p, err := store.getPool()
	if err != nil {
		return nil, err
	}
	if _, execErr := p.Exec(ctx, createEntriesTableSQL); execErr != nil {
		return nil, fmt.Errorf("create kv_entries table: %w", execErr)
	}
	return store, nil
}

func (s *Postgres) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// Get reads the value stored under key.
func (s *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	scanErr := pool.QueryRow(ctx, selectEntrySQL, key).Scan(&value)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select kv entry: %w", scanErr)
	}
	return value, true, nil
}

// Set upserts the value and notifies listeners on the kv_changes channel.
func (s *Postgres) Set(ctx context.Context, key string, value []byte) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, upsertEntrySQL, key, value); execErr != nil {
		return fmt.Errorf("upsert kv entry: %w", execErr)
	}
	if _, execErr := pool.Exec(ctx, notifyChangeSQL, key); execErr != nil {
		return fmt.Errorf("notify kv change: %w", execErr)
	}
	return nil
}

// Delete removes the key.
func (s *Postgres) Delete(ctx context.Context, key string) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteEntrySQL, key); execErr != nil {
		return fmt.Errorf("delete kv entry: %w", execErr)
	}
	return nil
}

// Watch holds a dedicated connection on LISTEN kv_changes and forwards
// notification payloads until ctx is cancelled.
func (s *Postgres) Watch(ctx context.Context) (<-chan string, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, execErr := conn.Exec(ctx, listenChangesSQL); execErr != nil {
		conn.Release()
		return nil, fmt.Errorf("listen kv_changes: %w", execErr)
	}

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			notification, waitErr := conn.Conn().WaitForNotification(ctx)
			if waitErr != nil {
				return
			}
			select {
			case ch <- notification.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Close releases the underlying pool resources.
func (s *Postgres) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}
