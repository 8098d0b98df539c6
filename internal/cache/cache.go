// Package cache provides a Redis-backed cache of analysis results so
// repeated lookups of the same channel within the TTL skip the provider
// round trip and the pipeline.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no cached result exists for a channel
var ErrMiss = errors.New("cache miss")

// ResultCache stores serialized analysis results keyed by username
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a ResultCache from config
func New(cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL(),
	}
}

// NewWithClient creates a ResultCache around an existing client
func NewWithClient(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Ping verifies connectivity to the Redis server
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached result for a username, or ErrMiss
func (c *ResultCache) Get(ctx context.Context, username string) (*analyzer.AnalysisResult, error) {
	data, err := c.client.Get(ctx, key(username)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var result analyzer.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &result, nil
}

// Set stores a result under its username for the configured TTL
func (c *ResultCache) Set(ctx context.Context, result analyzer.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(result.Username), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached result for a username
func (c *ResultCache) Invalidate(ctx context.Context, username string) error {
	return c.client.Del(ctx, key(username)).Err()
}

// Close releases the underlying client
func (c *ResultCache) Close() error { return c.client.Close() }

func key(username string) string {
	return "analysis:" + username
}
