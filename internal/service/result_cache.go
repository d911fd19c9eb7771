package service

import (
	"context"
	"edu_eval_backend/pkg/logger"
	"edu_eval_backend/pkg/monitoring"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "edu_eval:scoring:"

// ResultCache 以输入指纹为键缓存评分结果；nil 或无 Redis 时直接穿透
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Fingerprint hashes the JSON form of every part. Inputs that marshal to the
// same bytes share a key.
func Fingerprint(parts ...interface{}) string {
	d := xxhash.New()
	for _, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			// 无法序列化的输入不参与缓存
			return ""
		}
		d.Write(b)
		d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func (c *ResultCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get decodes a cached value into dst and reports whether it was found.
func (c *ResultCache) Get(ctx context.Context, operation, fingerprint string, dst interface{}) bool {
	if !c.enabled() || fingerprint == "" {
		return false
	}
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+operation+":"+fingerprint).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("scoring cache read failed", zap.String("operation", operation), zap.Error(err))
		}
		monitoring.ScoringCache.WithLabelValues(operation, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		monitoring.ScoringCache.WithLabelValues(operation, "miss").Inc()
		return false
	}
	monitoring.ScoringCache.WithLabelValues(operation, "hit").Inc()
	return true
}

func (c *ResultCache) Set(ctx context.Context, operation, fingerprint string, v interface{}) {
	if !c.enabled() || fingerprint == "" {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+operation+":"+fingerprint, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("scoring cache write failed", zap.String("operation", operation), zap.Error(err))
	}
}
