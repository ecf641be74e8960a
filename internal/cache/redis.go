package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1cbyc/view0x/internal/model"
)

const redisKeyPrefix = "analysis_result:"

// Redis is a Store backed by a Redis server, for deployments where analysis
// workers share one cache. Reports are stored as JSON under SETEX with the
// retention window as TTL, so Expire is handled server-side.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, fingerprint string) (*model.Report, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", fingerprint, err)
	}
	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		// A corrupt entry must not poison the caller; treat it as absent
		// and surface the decode failure.
		return nil, false, fmt.Errorf("decode cached report %s: %w", fingerprint, err)
	}
	return &report, true, nil
}

func (c *Redis) Put(ctx context.Context, fingerprint string, report *model.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", fingerprint, err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache put %s: %w", fingerprint, err)
	}
	return nil
}

// Expire is a no-op: Redis evicts entries itself once the TTL passes.
func (c *Redis) Expire(context.Context, time.Time) error { return nil }
