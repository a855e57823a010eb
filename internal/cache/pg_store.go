package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pwn-translator/internal/textutil"
)

// PostgresStore persists cache entries in a PostgreSQL table keyed by
// content hash. Selected when a cache database URL is configured;
// useful when several source files share one translation memory.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS translation_cache (
    hash       TEXT PRIMARY KEY,
    source     TEXT NOT NULL,
    translated TEXT NOT NULL
)`

// NewPostgresStore connects to PostgreSQL and ensures the cache table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, cacheSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure cache schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Load reads all persisted translations.
func (ps *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := ps.pool.Query(ctx, `SELECT source, translated FROM translation_cache`)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var source, translated string
		if err := rows.Scan(&source, &translated); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		entries[source] = translated
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache rows: %w", err)
	}

	return entries, nil
}

// Flush upserts every entry. Existing rows keep their hash key; the
// content-addressed key makes re-flushing idempotent.
func (ps *PostgresStore) Flush(ctx context.Context, entries map[string]string) error {
	for source, translated := range entries {
		_, err := ps.pool.Exec(ctx, `
			INSERT INTO translation_cache (hash, source, translated)
			VALUES ($1, $2, $3)
			ON CONFLICT (hash) DO UPDATE SET translated = EXCLUDED.translated`,
			textutil.Hash(source), source, translated,
		)
		if err != nil {
			return fmt.Errorf("upsert cache entry: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() {
	ps.pool.Close()
}
