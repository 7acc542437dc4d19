// Package inspire adapts the InspireHEP literature API: a typed client on
// top of a rate-limited, cache-fronted fetcher.
package inspire

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hep-mcp/inspire-mcp/pkg/cache"
	"github.com/hep-mcp/inspire-mcp/pkg/models"
	"github.com/hep-mcp/inspire-mcp/pkg/ratelimit"
)

// Request describes one upstream call by its logical identity. Two requests
// with the same path, parameters and accept header share a cache entry
// regardless of parameter ordering.
type Request struct {
	Path   string // relative to the API base, e.g. "literature/12345"
	Query  url.Values
	Accept string // optional Accept header for non-JSON formats
}

// Key returns the deterministic cache key for this request.
// url.Values.Encode sorts parameters, so incidental ordering differences
// collapse to the same key.
func (r Request) Key() string {
	h := sha256.New()
	io.WriteString(h, r.Path)
	io.WriteString(h, "?")
	io.WriteString(h, r.Query.Encode())
	if r.Accept != "" {
		io.WriteString(h, "#")
		io.WriteString(h, r.Accept)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Fetcher mediates every upstream call: in-memory cache, then the persistent
// store, then a rate-limited HTTP GET. Hits never touch the limiter or the
// network. Upstream failures are typed and never cached.
type Fetcher struct {
	baseURL string
	timeout time.Duration
	memory  *cache.Memory
	persist cache.Store
	limiter *ratelimit.Limiter
	client  *http.Client
	log     *slog.Logger

	hits     atomic.Int64
	misses   atomic.Int64
	apiCalls atomic.Int64
}

// NewFetcher wires a Fetcher. persist may be cache.NewNoopStore() when
// persistence is disabled; it must not be nil.
func NewFetcher(baseURL string, timeout time.Duration, mem *cache.Memory, persist cache.Store, limiter *ratelimit.Limiter, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		baseURL: baseURL,
		timeout: timeout,
		memory:  mem,
		persist: persist,
		limiter: limiter,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Fetch resolves a request through the cache layers, falling back to one
// paced upstream call on a full miss.
func (f *Fetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	key := req.Key()

	if data, ok := f.memory.Get(key); ok {
		f.hits.Add(1)
		return data, nil
	}

	if data, ok := f.persist.Get(key); ok {
		f.memory.Set(key, data)
		f.hits.Add(1)
		f.log.Debug("persistent cache hit", "path", req.Path)
		return data, nil
	}

	f.misses.Add(1)

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	data, err := f.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	f.memory.Set(key, data)
	if err := f.persist.Put(key, data); err != nil {
		// Persistence is an optimization; keep serving from memory.
		f.log.Warn("persistent cache write failed", "path", req.Path, "error", err)
	}
	return data, nil
}

func (f *Fetcher) doRequest(ctx context.Context, req Request) ([]byte, error) {
	f.apiCalls.Add(1)

	u := f.baseURL + "/" + req.Path
	if enc := req.Query.Encode(); enc != "" {
		u += "?" + enc
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}

	f.log.Debug("upstream request", "url", u)
	resp, err := f.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Timeout: f.timeout}
		}
		return nil, NewAPIError("InspireHEP request failed", 0, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Resource: "record", Identifier: req.Path}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, NewAPIError("InspireHEP request failed", resp.StatusCode, "")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Timeout: f.timeout}
		}
		return nil, NewAPIError("failed to read InspireHEP response", resp.StatusCode, err.Error())
	}
	return body, nil
}

// Stats returns the process-lifetime fetch counters.
func (f *Fetcher) Stats() models.ServerStats {
	hits := f.hits.Load()
	misses := f.misses.Load()
	stats := models.ServerStats{
		Hits:     hits,
		Misses:   misses,
		APICalls: f.apiCalls.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// MemoryStats exposes the in-memory cache counters.
func (f *Fetcher) MemoryStats() models.CacheStats { return f.memory.Stats() }

// PersistStats exposes the persistent store counters.
func (f *Fetcher) PersistStats() (models.CacheStats, error) { return f.persist.Stats() }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

const userAgent = "inspire-mcp/1.0 (https://github.com/hep-mcp/inspire-mcp)"
