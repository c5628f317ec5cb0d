package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

const (
	mapKeyPrefix   = "ilewa:map:"      // Cached feed per filter: ilewa:map:{filter key}
	mapKeyIndex    = "ilewa:map:index" // Set of live feed keys, cleared on moderation
	defaultFeedTTL = 2 * time.Minute
)

// FeedCache keeps recently served map feeds in Redis.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a FeedCache. A non-positive ttl uses the default.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = defaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) key(f domain.Filter) string {
	return mapKeyPrefix + f.Key()
}

// Get returns the cached feed for f. ok is false on a miss.
func (c *FeedCache) Get(ctx context.Context, f domain.Filter) ([]domain.Project, bool, error) {
	data, err := c.client.Get(ctx, c.key(f)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read map feed: %w", err)
	}

	var items []domain.Project
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal map feed: %w", err)
	}
	return items, true, nil
}

// Set stores the feed for f and records its key in the index.
func (c *FeedCache) Set(ctx context.Context, f domain.Filter, items []domain.Project) error {
	if items == nil {
		items = []domain.Project{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal map feed: %w", err)
	}

	key := c.key(f)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, mapKeyIndex, key)
	pipe.Expire(ctx, mapKeyIndex, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache map feed: %w", err)
	}
	return nil
}

// Invalidate drops every cached feed.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, mapKeyIndex).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to list map feeds: %w", err)
	}

	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, mapKeyIndex)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate map feeds: %w", err)
	}
	return nil
}
