// Package cache provides the in-memory TTL/LRU cache and the persistence
// capability used by the InspireHEP fetcher.
package cache

import "github.com/hep-mcp/inspire-mcp/pkg/models"

// Store is an optional persistent backing store for cache entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored value, or false if absent or expired.
	Get(key string) ([]byte, bool)
	// Put upserts a value under key.
	Put(key string, value []byte) error
	// Stats reports backend counters.
	Stats() (models.CacheStats, error)
	// Close releases backend resources.
	Close() error
}

// noopStore is the Store used when persistence is disabled.
type noopStore struct{}

// NewNoopStore returns a Store that never hits and never stores.
func NewNoopStore() Store { return noopStore{} }

func (noopStore) Get(string) ([]byte, bool) { return nil, false }

func (noopStore) Put(string, []byte) error { return nil }

func (noopStore) Stats() (models.CacheStats, error) {
	return models.CacheStats{Backend: "none"}, nil
}

func (noopStore) Close() error { return nil }
