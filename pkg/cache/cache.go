// Package cache stores segmentation results in Redis, keyed by content hash,
// so repeated ingests of the same text skip re-parsing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/pkg/segment"
)

// keyPrefix namespaces segmentation entries in a shared Redis.
const keyPrefix = "seg:"

// SegmentCache caches extraction results.
type SegmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache from configuration.
func New(cfg *config.CacheConfig) *SegmentCache {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = config.DefaultCacheTTL
	}
	return &SegmentCache{client: client, ttl: ttl}
}

// NewWithClient wraps an existing Redis client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *SegmentCache {
	return &SegmentCache{client: client, ttl: ttl}
}

// Get returns the cached segments for a content hash. The second return is
// false on a miss.
func (c *SegmentCache) Get(ctx context.Context, contentHash string) ([]segment.Segment, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+contentHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	var segments []segment.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		// A corrupt entry is treated as a miss; the caller re-parses
		// and overwrites it.
		return nil, false, nil
	}
	return segments, true, nil
}

// Set stores segments under the content hash with the configured TTL.
func (c *SegmentCache) Set(ctx context.Context, contentHash string, segments []segment.Segment) error {
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshaling segments: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+contentHash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Invalidate removes the entry for a content hash.
func (c *SegmentCache) Invalidate(ctx context.Context, contentHash string) error {
	if err := c.client.Del(ctx, keyPrefix+contentHash).Err(); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (c *SegmentCache) Close() error {
	return c.client.Close()
}
