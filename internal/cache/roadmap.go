package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// roadmapCacheKey holds the rendered group roadmap.
	roadmapCacheKey = "roadmap:v1"

	// RoadmapTTL bounds staleness between syncs; any ingest also
	// invalidates the entry explicitly.
	RoadmapTTL = 10 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetRoadmap retrieves the cached roadmap document.
// Returns ErrCacheMiss if not present.
func (c *Cache) GetRoadmap(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, roadmapCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get roadmap: %w", err)
	}

	return data, nil
}

// SetRoadmap stores the rendered roadmap document.
func (c *Cache) SetRoadmap(ctx context.Context, data []byte) error {
	if err := c.client.Set(ctx, roadmapCacheKey, data, RoadmapTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache roadmap: %w", err)
	}
	return nil
}

// InvalidateRoadmap drops the cached roadmap.
// Called after any submission ingest or catalog import.
func (c *Cache) InvalidateRoadmap(ctx context.Context) error {
	if err := c.client.Del(ctx, roadmapCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate roadmap: %w", err)
	}
	return nil
}
