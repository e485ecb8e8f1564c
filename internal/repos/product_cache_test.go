package repos_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	applog "onlinestore/internal/log"
	"onlinestore/internal/repos"
)

func cached(t *testing.T) (*repos.CachedProductRepo, *miniredis.Miniredis, *repos.ProductRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	prods := repos.NewProductRepo(memdb(t))
	return repos.NewCachedProductRepo(prods, rdb, time.Minute), mr, prods
}

func TestCachedProductRepo_ReadThroughAndInvalidate(t *testing.T) {
	c, mr, prods := cached(t)
	ctx := context.Background()
	p := seedProductWith(t, prods, 7)

	got, err := c.Get(ctx, p.ID)
	if err != nil || got.Stock != 7 {
		t.Fatalf("first read: %+v %v", got, err)
	}
	key := fmt.Sprintf("product:%d", p.ID)
	if !mr.Exists(key) {
		t.Fatal("product not cached")
	}

	// stale until invalidated
	_ = prods.SetStock(ctx, p.ID, 2)
	if got, _ := c.Get(ctx, p.ID); got.Stock != 7 {
		t.Fatalf("want cached stock 7, got %d", got.Stock)
	}
	c.Invalidate(ctx, p.ID)
	if got, _ := c.Get(ctx, p.ID); got.Stock != 2 {
		t.Fatalf("want fresh stock 2, got %d", got.Stock)
	}
}

func TestCachedProductRepo_NegativeCaching(t *testing.T) {
	c, mr, _ := cached(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, 42); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
	if v, err := mr.Get("product:42"); err != nil || v != "notfound" {
		t.Fatalf("want notfound marker, got %q %v", v, err)
	}
	if _, err := c.Get(ctx, 42); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("cached miss: want sql.ErrNoRows, got %v", err)
	}
}

func TestCachedProductRepo_FallsBackWhenRedisDown(t *testing.T) {
	c, mr, prods := cached(t)
	p := seedProductWith(t, prods, 3)
	mr.Close()

	got, err := c.Get(context.Background(), p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("want database read, got %+v %v", got, err)
	}
}

func TestCachedProductRepo_CorruptEntryLogsAndReloads(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(zap.NewNop()) })

	c, mr, prods := cached(t)
	p := seedProductWith(t, prods, 5)
	key := fmt.Sprintf("product:%d", p.ID)
	if err := mr.Set(key, "{not json"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(context.Background(), p.ID)
	if err != nil || got.Stock != 5 {
		t.Fatalf("want database read, got %+v %v", got, err)
	}
	entries := logs.FilterMessage("cache.product.decode").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 decode warning, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Fatalf("decode warning has no error field: %v", entries[0].ContextMap())
	}
}
