package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
)

const quoteKeyPrefix = "ilewa:quote:"

// QuoteCache holds the quote picked for each UTC day.
type QuoteCache struct {
	client *redis.Client
}

func NewQuoteCache(client *redis.Client) *QuoteCache {
	return &QuoteCache{client: client}
}

func Key(day time.Time) string {
	return quoteKeyPrefix + domain.Day(day).Format("2006-01-02")
}

func (c *QuoteCache) Get(ctx context.Context, day time.Time) (*domain.DailyQuote, bool, error) {
	raw, err := c.client.Get(ctx, Key(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var q domain.DailyQuote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, false, err
	}
	return &q, true, nil
}

// Set stores q for day, expiring after ttl.
func (c *QuoteCache) Set(ctx context.Context, day time.Time, q domain.DailyQuote, ttl time.Duration) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(day), raw, ttl).Err()
}

func (c *QuoteCache) Delete(ctx context.Context, day time.Time) error {
	return c.client.Del(ctx, Key(day)).Err()
}
