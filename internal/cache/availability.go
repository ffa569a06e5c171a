// Package cache keeps the unavailable days of each suit in Redis so the
// catalogue can answer availability queries without touching Postgres.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"suit-rental-backend/internal/config"
	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/logger"
)

// Client is the part of *redis.Client the cache needs.
type Client interface {
	redis.Scripter
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// setIfCurrent writes the days only while the generation still matches the
// one the caller read. A missing generation counts as 0.
var setIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if (cur or '0') ~= ARGV[1] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

var bumpGeneration = redis.NewScript(`
local gen = redis.call('INCR', KEYS[2])
redis.call('DEL', KEYS[1])
return gen
`)

// AvailabilityCache stores each suit's unavailable days as a JSON array of
// YYYY-MM-DD strings under prefix+suitID, next to a generation counter under
// prefix+suitID+":gen". The counter never expires.
type AvailabilityCache struct {
	client Client
	prefix string
	ttl    time.Duration
}

func NewAvailabilityCache(client Client, prefix string, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, prefix: prefix, ttl: ttl}
}

// Connect dials Redis from config and pings it with a short timeout.
func Connect(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func (c *AvailabilityCache) keys(suitID int32) []string {
	days := c.prefix + strconv.FormatInt(int64(suitID), 10)
	return []string{days, days + ":gen"}
}

// Get returns the cached days and the suit's current generation. A missing
// days key is a miss, not an error.
func (c *AvailabilityCache) Get(ctx context.Context, suitID int32) ([]domain.Day, bool, int64, error) {
	keys := c.keys(suitID)
	logger.ExternalServiceCall(ctx, "redis", "MGET", "key", keys[0])

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err == nil && len(vals) != len(keys) {
		err = fmt.Errorf("expected %d values, got %d", len(keys), len(vals))
	}
	if err != nil {
		logger.ExternalServiceResult(ctx, "redis", "MGET", err)
		return nil, false, 0, fmt.Errorf("read availability of suit %d: %w", suitID, err)
	}

	var generation int64
	if raw, ok := vals[1].(string); ok {
		generation, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, 0, fmt.Errorf("decode generation of suit %d: %w", suitID, err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		logger.ExternalServiceResult(ctx, "redis", "MGET", nil, "hit", false, "generation", generation)
		return nil, false, generation, nil
	}
	days, err := decodeDays([]byte(raw))
	if err != nil {
		return nil, false, 0, fmt.Errorf("decode availability of suit %d: %w", suitID, err)
	}
	logger.ExternalServiceResult(ctx, "redis", "MGET", nil, "hit", true, "days", len(days), "generation", generation)
	return days, true, generation, nil
}

// Set stores the days if the suit is still at generation. A stale write is
// dropped silently.
func (c *AvailabilityCache) Set(ctx context.Context, suitID int32, generation int64, days []domain.Day) error {
	keys := c.keys(suitID)
	payload, err := encodeDays(days)
	if err != nil {
		return err
	}

	logger.ExternalServiceCall(ctx, "redis", "EVALSHA", "key", keys[0], "generation", generation, "ttl", c.ttl)
	stored, err := setIfCurrent.Run(ctx, c.client, keys, generation, string(payload), c.ttl.Milliseconds()).Int()
	logger.ExternalServiceResult(ctx, "redis", "EVALSHA", err, "stored", stored == 1)
	if err != nil {
		return fmt.Errorf("write availability of suit %d: %w", suitID, err)
	}
	return nil
}

// Invalidate advances the suit's generation and drops its cached days in one
// atomic step.
func (c *AvailabilityCache) Invalidate(ctx context.Context, suitID int32) error {
	keys := c.keys(suitID)
	logger.ExternalServiceCall(ctx, "redis", "EVALSHA", "key", keys[0])
	generation, err := bumpGeneration.Run(ctx, c.client, keys).Int64()
	logger.ExternalServiceResult(ctx, "redis", "EVALSHA", err, "generation", generation)
	if err != nil {
		return fmt.Errorf("invalidate availability of suit %d: %w", suitID, err)
	}
	return nil
}

func encodeDays(days []domain.Day) ([]byte, error) {
	if days == nil {
		days = []domain.Day{}
	}
	return json.Marshal(days)
}

func decodeDays(raw []byte) ([]domain.Day, error) {
	days := []domain.Day{}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, err
	}
	return days, nil
}
