package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

const publishedEventsKey = "events:published"

// EventCache keeps the published-events listing in Redis. Misses and Redis
// failures degrade to the database; the cache is never authoritative.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewEventCache constructs the cache. A nil client disables caching.
func NewEventCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *EventCache {
	return &EventCache{client: client, ttl: ttl, logger: logger}
}

// GetPublished returns the cached published listing, if present.
func (c *EventCache) GetPublished(ctx context.Context) ([]domain.Event, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, publishedEventsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("event cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var result []domain.Event
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("event cache decode failed", zap.Error(err))
		return nil, false
	}
	return result, true
}

// SetPublished stores the published listing with the configured TTL.
func (c *EventCache) SetPublished(ctx context.Context, list []domain.Event) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, publishedEventsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("event cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing after any event mutation.
func (c *EventCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, publishedEventsKey).Err(); err != nil {
		c.logger.Warn("event cache invalidation failed", zap.Error(err))
	}
}
