// Package cache implements the score cache on Redis.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// ScoreCache stores assembled match results keyed by request digest. A cache
// miss and a cache fault look the same to callers except for the returned
// error; the pipeline treats both as a miss.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using a URL (redis://...) and returns a ScoreCache.
func New(url string, ttl time.Duration) (*ScoreCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=cache.new: %w", err)
	}
	return &ScoreCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl}
}

// Get returns the cached scores for key, reporting whether the key was
// present. Deserialization failures are treated as a miss so a stale or
// corrupt entry never breaks a request.
func (c *ScoreCache) Get(ctx domain.Context, key string) ([]domain.FoundationScore, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("op=cache.get: %w", err)
	}
	var scores []domain.FoundationScore
	if err := json.Unmarshal(raw, &scores); err != nil {
		slog.Warn("cache entry not decodable, treating as miss", slog.String("key", key))
		return nil, false, nil
	}
	return scores, true, nil
}

// Set stores scores under key with the configured TTL.
func (c *ScoreCache) Set(ctx domain.Context, key string, scores []domain.FoundationScore) error {
	raw, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}

// Ping verifies connectivity. Used by the readiness probe.
func (c *ScoreCache) Ping(ctx domain.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *ScoreCache) Close() error {
	return c.client.Close()
}
