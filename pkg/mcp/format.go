package mcp

import (
	"fmt"

	"github.com/hep-mcp/inspire-mcp/pkg/models"
)

// statsPayload is the server_stats response document.
type statsPayload struct {
	models.ServerStats

	MemoryCache     models.CacheStats  `json:"memory_cache"`
	PersistentCache *models.CacheStats `json:"persistent_cache,omitempty"`
}

func buildStatsPayload(s Statter) statsPayload {
	payload := statsPayload{
		ServerStats: s.Stats(),
		MemoryCache: s.MemoryStats(),
	}
	if ps, err := s.PersistStats(); err == nil && ps.Backend != "none" {
		payload.PersistentCache = &ps
	}
	return payload
}

// FormatCacheStats renders backend counters as text, for the cache CLI.
func FormatCacheStats(stats models.CacheStats) string {
	return fmt.Sprintf("Backend:   %s\n"+
		"Entries:   %d\n"+
		"Max size:  %d\n"+
		"Hits:      %d\n"+
		"Misses:    %d\n"+
		"Evictions: %d\n"+
		"Hit rate:  %.1f%%\n",
		stats.Backend, stats.Entries, stats.MaxSize,
		stats.Hits, stats.Misses, stats.Evictions, stats.HitRate())
}
