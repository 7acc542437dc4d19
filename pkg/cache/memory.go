package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/hep-mcp/inspire-mcp/pkg/models"
)

// Memory is a bounded in-memory cache with per-entry TTL and LRU eviction.
// Expiry is checked lazily on Get; capacity is enforced eagerly on Set.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int

	entries map[string]*list.Element
	order   *list.List // front = most recently used

	hits      int64
	misses    int64
	evictions int64
}

type memEntry struct {
	key      string
	value    []byte
	inserted time.Time
}

// NewMemory creates a Memory cache. maxSize must be positive.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Memory{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value, or false on a miss. An expired entry counts
// as a miss and is removed.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}

	e := elem.Value.(*memEntry)
	if time.Since(e.inserted) > m.ttl {
		m.order.Remove(elem)
		delete(m.entries, key)
		m.misses++
		return nil, false
	}

	m.order.MoveToFront(elem)
	m.hits++
	return e.value, true
}

// Set stores a value, replacing any existing entry for key and evicting the
// least-recently-used entry when over capacity.
func (m *Memory) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		e := elem.Value.(*memEntry)
		e.value = value
		e.inserted = time.Now()
		m.order.MoveToFront(elem)
		return
	}

	m.entries[key] = m.order.PushFront(&memEntry{key: key, value: value, inserted: time.Now()})

	for len(m.entries) > m.maxSize {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memEntry).key)
		m.evictions++
	}
}

// Invalidate removes key if present.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		m.order.Remove(elem)
		delete(m.entries, key)
	}
}

// Clear removes all entries. Counters are kept.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
}

// Len returns the current entry count.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats reports counters for this cache.
func (m *Memory) Stats() models.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.CacheStats{
		Backend:   "memory",
		Entries:   int64(len(m.entries)),
		MaxSize:   int64(m.maxSize),
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
	}
}
