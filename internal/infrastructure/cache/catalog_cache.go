package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gowaffles/assistant/internal/domain"
	"github.com/gowaffles/assistant/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a menu snapshot is served before a refetch
const DefaultTTL = 300 * time.Second

const flightKey = "catalog"

// CatalogCache holds the latest menu snapshot and refreshes it on demand.
//
// The snapshot and its timestamp live in one immutable value swapped with a
// single atomic store, so readers never observe a half-updated pair.
// Concurrent refreshes collapse into one in-flight fetch.
type CatalogCache struct {
	fetcher  domain.CatalogFetcher
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
	metrics  *metrics.Metrics
	snapshot atomic.Pointer[domain.CatalogSnapshot]
	group    singleflight.Group
}

// Option configures a CatalogCache
type Option func(*CatalogCache)

// WithClock replaces time.Now, used by tests to move time forward
func WithClock(now func() time.Time) Option {
	return func(c *CatalogCache) {
		c.now = now
	}
}

// WithMetrics records fetch outcomes on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *CatalogCache) {
		c.metrics = m
	}
}

// NewCatalogCache creates an empty cache in front of fetcher
func NewCatalogCache(fetcher domain.CatalogFetcher, ttl time.Duration, logger *zap.Logger, opts ...Option) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &CatalogCache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With(zap.String("component", "catalog_cache")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCatalog returns the current snapshot, refetching when it is missing or
// older than the TTL. On fetch failure the previous snapshot (possibly nil)
// is returned and its timestamp is left alone, so the next call retries.
func (c *CatalogCache) GetCatalog(ctx context.Context) *domain.CatalogSnapshot {
	if current := c.snapshot.Load(); !c.isStale(current) {
		return current
	}

	v, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		// Another flight may have refreshed while we were queued
		if current := c.snapshot.Load(); !c.isStale(current) {
			return current, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		current := c.snapshot.Load()
		c.logger.Warn("menu refresh failed, serving previous snapshot",
			zap.Error(err),
			zap.Bool("shared", shared),
			zap.Int("cached_entries", current.Len()))
		return current
	}

	return v.(*domain.CatalogSnapshot)
}

// LastFetchedAt returns the timestamp of the stored snapshot, zero when empty
func (c *CatalogCache) LastFetchedAt() time.Time {
	if current := c.snapshot.Load(); current != nil {
		return current.FetchedAt
	}
	return time.Time{}
}

// isStale reports whether snap must be refetched; a nil snapshot is always stale
func (c *CatalogCache) isStale(snap *domain.CatalogSnapshot) bool {
	if snap == nil {
		return true
	}
	return c.now().Sub(snap.FetchedAt) > c.ttl
}

// refresh runs inside the single flight. The fetch does not inherit the
// caller's cancellation; it is bounded by the fetcher's own timeout.
func (c *CatalogCache) refresh(ctx context.Context) (*domain.CatalogSnapshot, error) {
	started := c.now()

	fetched, err := c.fetcher.FetchCatalog(context.WithoutCancel(ctx))
	if err != nil {
		c.observe("failure", nil)
		return nil, err
	}

	var entries []domain.CatalogEntry
	if fetched != nil {
		entries = fetched.Entries
	}
	snap := domain.NewCatalogSnapshot(entries, started)
	c.snapshot.Store(snap)
	c.observe("success", snap)

	c.logger.Info("menu snapshot refreshed",
		zap.Int("entries", snap.Len()),
		zap.Time("fetched_at", snap.FetchedAt))

	return snap, nil
}

func (c *CatalogCache) observe(result string, snap *domain.CatalogSnapshot) {
	if c.metrics == nil {
		return
	}
	c.metrics.CatalogFetches.WithLabelValues(result).Inc()
	if snap != nil {
		c.metrics.CatalogEntries.Set(float64(snap.Len()))
		c.metrics.CatalogFetchedAt.Set(float64(snap.FetchedAt.Unix()))
	}
}
