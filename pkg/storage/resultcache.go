package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mirai-health/screening/pkg/common/logger"
	"github.com/mirai-health/screening/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// ResultCache keeps recent screening responses in Redis. Scoring is
// deterministic for a given loaded artifact set, so a cached response is
// exact, not approximate. Cache faults only cost the hit; they never fail a
// prediction.
type ResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, prefix string, ttl time.Duration) *ResultCache {
	if prefix == "" {
		prefix = "screening"
	}
	return &ResultCache{client: client, prefix: prefix, ttl: ttl}
}

// CacheKey derives a stable key from the normalized patient record.
// encoding/json writes map keys in sorted order, so equal records hash equal.
func CacheKey(patient models.PatientAttributes) string {
	data, err := json.Marshal(patient)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.ScreeningResponse, bool) {
	if key == "" {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("result cache read failed")
		}
		return nil, false
	}

	var resp models.ScreeningResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Log.WithError(err).Warn("result cache entry corrupt")
		return nil, false
	}
	return &resp, true
}

func (c *ResultCache) Put(ctx context.Context, key string, resp *models.ScreeningResponse) {
	if key == "" || resp == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.redisKey(key), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("result cache write failed")
	}
}

func (c *ResultCache) redisKey(key string) string {
	return fmt.Sprintf("%s:result:%s", c.prefix, key)
}
