// internal/cache/plan_cache.go
package cache

import (
	"alcyxob/studyplan-app/internal/config"
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PlanCache is a read-through cache over a user's plan history. Invalidate
// is the single entry point for dropping a user's entry after a write.
type PlanCache interface {
	Get(ctx context.Context, userID string) ([]domain.Plan, bool)
	Set(ctx context.Context, userID string, plans []domain.Plan)
	Invalidate(ctx context.Context, userID string)
	Close() error
}

type redisPlanCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisPlanCache connects to redis and returns a PlanCache backed by it.
func NewRedisPlanCache(cfg config.RedisConfig, log *logger.Logger) (PlanCache, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &redisPlanCache{
		log: log.With("service", "RedisPlanCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func planKey(userID string) string {
	return "plans:" + userID
}

func (c *redisPlanCache) Get(ctx context.Context, userID string) ([]domain.Plan, bool) {
	raw, err := c.rdb.Get(ctx, planKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("plan cache read failed", "userId", userID, "error", err)
		}
		return nil, false
	}
	var plans []domain.Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		c.log.Warn("bad plan cache payload", "userId", userID, "error", err)
		return nil, false
	}
	return plans, true
}

func (c *redisPlanCache) Set(ctx context.Context, userID string, plans []domain.Plan) {
	raw, err := json.Marshal(plans)
	if err != nil {
		c.log.Warn("plan cache encode failed", "userId", userID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, planKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("plan cache write failed", "userId", userID, "error", err)
	}
}

// Invalidate is delete-on-write: a concurrent reader may still observe the
// old entry until the delete lands. Accepted best-effort consistency.
func (c *redisPlanCache) Invalidate(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, planKey(userID)).Err(); err != nil {
		c.log.Warn("plan cache invalidate failed", "userId", userID, "error", err)
	}
}

func (c *redisPlanCache) Close() error {
	return c.rdb.Close()
}
