// Package cache stores raw Gutendex search pages in a local SQLite database
// so repeated searches for the same term don't hit the API again.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// DefaultTTL is the default time-to-live for cached search pages (30 days).
const DefaultTTL = 720 * time.Hour

// Schema defines the single search-page cache table.
const Schema = `
CREATE TABLE IF NOT EXISTS gutendex_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_gutendex_cached_at ON gutendex_cache(cached_at);
`

// FetchFunc represents a function that fetches data from an external source
type FetchFunc[T any] func() (T, error)

// DB manages the SQLite database connection for caching
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates a DB instance, opens the database connection and ensures the
// cache table exists.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	if _, err := db.Exec(Schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
	}

	return &DB{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached data for key if it exists and is younger than ttl.
func (c *DB) Get(key string, ttl time.Duration) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(
		"SELECT data, cached_at FROM gutendex_cache WHERE cache_key = ?", key,
	).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > ttl {
		slog.Debug("Cache expired", "key", key, "age", age)
		return "", false, nil
	}

	return data, true, nil
}

// Set stores a value in the cache
func (c *DB) Set(key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO gutendex_cache (cache_key, data, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Clear deletes all cached entries and returns the number of rows removed.
func (c *DB) Clear() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec("DELETE FROM gutendex_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// TTL reads the configured cache TTL, falling back to DefaultTTL when the
// config value is missing or unparseable.
func TTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultTTL
	}
	return ttl
}

// GetOrFetch retrieves data from the cache or fetches it using the provided
// function. The second return value reports whether the data came from the
// cache. A nil DB disables caching and always fetches.
func GetOrFetch[T any](c *DB, key string, fetchFunc FetchFunc[T]) (T, bool, error) {
	var zero T

	if c == nil {
		data, err := fetchFunc()
		return data, false, err
	}

	ttl := TTL()

	cached, fromCache, err := c.Get(key, ttl)
	if err == nil && fromCache {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, will refetch", "key", key, "error", err)
	}

	slog.Debug("Cache miss, fetching data", "key", key)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, err
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "key", key, "error", err)
		return data, false, nil
	}
	if err := c.Set(key, string(jsonData)); err != nil {
		// caching failure must not fail the fetch
		slog.Warn("Failed to cache data", "key", key, "error", err)
	}

	return data, false, nil
}
