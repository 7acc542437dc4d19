// Package sqlite implements the persistent cache store on a single SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hep-mcp/inspire-mcp/pkg/models"
)

// Cache is a file-backed cache.Store with TTL expiry and oldest-first
// capacity eviction. Each write is an independent upsert, so concurrent
// readers never observe a partial entry.
type Cache struct {
	db      *sql.DB
	ttl     time.Duration
	maxSize int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key         TEXT PRIMARY KEY,
	value       BLOB NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_created_at ON cache_entries(created_at);
`

// New opens (or creates) the cache database at dbPath.
func New(dbPath string, ttl time.Duration, maxSize int) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, ttl: ttl, maxSize: maxSize}, nil
}

// Get retrieves a cached value. Returns false if absent or expired; expired
// rows are deleted on the way out.
func (c *Cache) Get(key string) ([]byte, bool) {
	var value []byte
	var createdAt time.Time
	var ttlSeconds int64

	err := c.db.QueryRow(
		`SELECT value, created_at, ttl_seconds FROM cache_entries WHERE key = ?`,
		key,
	).Scan(&value, &createdAt, &ttlSeconds)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	if time.Since(createdAt) > time.Duration(ttlSeconds)*time.Second {
		_, _ = c.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return value, true
}

// Put upserts a value, then trims the oldest rows if over capacity.
func (c *Cache) Put(key string, value []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO cache_entries (key, value, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?)`,
		key, value, time.Now().UTC(), int64(c.ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return c.enforceMaxSize()
}

func (c *Cache) enforceMaxSize() error {
	if c.maxSize <= 0 {
		return nil
	}
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&count); err != nil {
		return fmt.Errorf("cache count: %w", err)
	}
	excess := count - int64(c.maxSize)
	if excess <= 0 {
		return nil
	}
	_, err := c.db.Exec(
		`DELETE FROM cache_entries WHERE key IN
		 (SELECT key FROM cache_entries ORDER BY created_at ASC LIMIT ?)`,
		excess,
	)
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	c.evictions.Add(excess)
	return nil
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) error {
	if _, err := c.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Stats returns backend counters.
func (c *Cache) Stats() (models.CacheStats, error) {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&count); err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Backend:   "sqlite",
		Entries:   count,
		MaxSize:   int64(c.maxSize),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired rows go.
func (c *Cache) Clear(expiredOnly bool) error {
	var query string
	if expiredOnly {
		query = `DELETE FROM cache_entries WHERE (julianday('now') - julianday(created_at)) * 86400 > ttl_seconds`
	} else {
		query = `DELETE FROM cache_entries`
	}
	if _, err := c.db.Exec(query); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
