package lnd

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/common/metrics"
)

const aliasKeyPrefix = "lnd:alias:"

// AliasCache is a read-through Redis cache in front of a Gateway's alias
// lookups. Cache trouble is never surfaced to callers: a failed Get falls
// through to the wrapped gateway and a failed Set is only logged. Channel
// listing is passed through untouched.
type AliasCache struct {
	next   Gateway
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewAliasCache(next Gateway, rdb *redis.Client, ttl time.Duration, log logger.Logger) *AliasCache {
	return &AliasCache{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "alias-cache"}),
	}
}

func (c *AliasCache) ListChannels(ctx context.Context) ([]Channel, error) {
	return c.next.ListChannels(ctx)
}

func (c *AliasCache) GetPeerAlias(ctx context.Context, pubkey string) (string, error) {
	key := aliasKeyPrefix + pubkey

	if alias, err := c.rdb.Get(ctx, key).Result(); err == nil {
		metrics.AliasCacheHits.Inc()
		return alias, nil
	} else if err != redis.Nil {
		c.logger.Warn("alias cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	alias, err := c.next.GetPeerAlias(ctx, pubkey)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, alias, c.ttl).Err(); err != nil {
		c.logger.Warn("alias cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return alias, nil
}
