package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
)

const notFoundMarker = "notfound"

// CachedProductRepo serves single-product reads from redis in front of
// ProductRepo. A nil client turns it into a pass-through.
type CachedProductRepo struct {
	real *ProductRepo
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedProductRepo(real *ProductRepo, rdb *redis.Client, ttl time.Duration) *CachedProductRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepo{real: real, rdb: rdb, ttl: ttl}
}

func productKey(id int64) string { return fmt.Sprintf("product:%d", id) }

func (c *CachedProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	if c.rdb == nil {
		return c.real.Get(ctx, id)
	}
	key := productKey(id)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return domain.Product{}, sql.ErrNoRows
		}
		var p domain.Product
		decErr := json.Unmarshal(data, &p)
		if decErr == nil {
			return p, nil
		}
		applog.L().Warn("cache.product.decode", zap.String("key", key), zap.Error(decErr))
	case errors.Is(err, redis.Nil):
	default:
		applog.L().Warn("cache.product.get", zap.String("key", key), zap.Error(err))
	}

	p, err := c.real.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		if setErr := c.rdb.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
			applog.L().Warn("cache.product.set", zap.String("key", key), zap.Error(setErr))
		}
		return p, err
	}
	if err != nil {
		return p, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			applog.L().Warn("cache.product.set", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

// Invalidate drops cached entries for ids. Failures are logged, not returned.
func (c *CachedProductRepo) Invalidate(ctx context.Context, ids ...int64) {
	if c.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		applog.L().Warn("cache.product.invalidate", zap.Strings("keys", keys), zap.Error(err))
	}
}
