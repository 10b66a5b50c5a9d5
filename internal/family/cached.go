package family

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirathi_family_cache_hits_total",
		Help: "Family structure lookups served from the Redis cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mirathi_family_cache_misses_total",
		Help: "Family structure lookups that fell through to the upstream provider",
	})
)

// Redis key prefix for cached family structures
const structureKeyPrefix = "family:structure:"

// DefaultCacheTTL bounds how stale a cached family structure may grow.
// Kinship data changes rarely but corrections do happen mid-administration.
const DefaultCacheTTL = 15 * time.Minute

// Cached is a read-through Redis cache around another Provider. Cache
// failures are logged and absorbed: the upstream answer always wins.
type Cached struct {
	inner  Provider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CachedOption configures a Cached provider.
type CachedOption func(*Cached)

// WithCacheTTL overrides the default cache entry lifetime.
func WithCacheTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger used for cache diagnostics.
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCached wraps inner with a Redis read-through cache.
func NewCached(inner Provider, client *redis.Client, opts ...CachedOption) (*Cached, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner provider is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	c := &Cached{
		inner:  inner,
		client: client,
		ttl:    DefaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FamilyStructure returns the cached structure when present, otherwise asks
// the upstream provider and caches its answer.
func (c *Cached) FamilyStructure(ctx context.Context, deceasedID id.PersonID) (*FamilyStructure, error) {
	key := structureKeyPrefix + deceasedID.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var structure FamilyStructure
		if uerr := json.Unmarshal(raw, &structure); uerr == nil {
			cacheHits.Inc()
			return &structure, nil
		}
		// Corrupt entry: drop it and fall through to the source.
		c.logger.Warn("dropping corrupt family cache entry", "key", key)
		c.client.Del(ctx, key)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.logger.Warn("family cache read failed", "key", key, "error", err)
	}

	cacheMisses.Inc()
	structure, err := c.inner.FamilyStructure(ctx, deceasedID)
	if err != nil {
		return nil, err
	}

	if raw, merr := json.Marshal(structure); merr == nil {
		if serr := c.client.Set(ctx, key, raw, c.ttl).Err(); serr != nil {
			c.logger.Warn("family cache write failed", "key", key, "error", serr)
		}
	}
	return structure, nil
}

// Invalidate drops the cached structure for one deceased person. Call it
// when the registry reports a correction.
func (c *Cached) Invalidate(ctx context.Context, deceasedID id.PersonID) error {
	return c.client.Del(ctx, structureKeyPrefix+deceasedID.String()).Err()
}
