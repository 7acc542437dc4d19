package models

// CacheStats holds counters for a single cache backend.
type CacheStats struct {
	Backend   string `json:"backend"`
	Entries   int64  `json:"entries"`
	MaxSize   int64  `json:"max_size"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Evictions int64  `json:"evictions"`
}

// HitRate returns the hit percentage, 0 when no lookups happened.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// ServerStats are the process-lifetime fetch counters exposed by the
// server_stats tool.
type ServerStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	APICalls int64   `json:"api_calls"`
	HitRate  float64 `json:"hit_rate"`
}
