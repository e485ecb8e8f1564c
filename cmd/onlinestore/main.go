package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"onlinestore/internal/config"
	"onlinestore/internal/http/handlers"
	applog "onlinestore/internal/log"
	"onlinestore/internal/repos"
)

func main() {
	cfg := config.Load()

	zl, err := applog.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		zl.Fatal("db.open", zap.String("dsn", cfg.DBDSN), zap.Error(err))
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.Seed(db); err != nil {
			zl.Fatal("db.seed", zap.Error(err))
		}
	}

	rdb := openRedis(cfg, zl)
	if rdb != nil {
		defer rdb.Close()
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"header": c.Get("X-Csrf-Token") != ""})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, rdb, cfg)
	handlers.Register(app, deps)

	zl.Info("server.start", zap.String("port", cfg.Port), zap.Bool("cache", rdb != nil))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("server.listen", zap.Error(err))
	}
}

// openRedis returns nil when no cache is configured or the server is
// unreachable; the store then reads products straight from sqlite.
func openRedis(cfg config.Config, zl *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zl.Warn("cache.config", zap.Error(err))
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zl.Warn("cache.unavailable", zap.String("url", opts.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}
