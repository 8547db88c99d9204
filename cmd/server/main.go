package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/config"
	"github.com/d60-Lab/hourglass/internal/api"
	"github.com/d60-Lab/hourglass/internal/api/handler"
	"github.com/d60-Lab/hourglass/internal/api/middleware"
	"github.com/d60-Lab/hourglass/internal/cache"
	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
	"github.com/d60-Lab/hourglass/internal/service"
	pkgcache "github.com/d60-Lab/hourglass/pkg/cache"
	"github.com/d60-Lab/hourglass/pkg/database"
	"github.com/d60-Lab/hourglass/pkg/logger"
	"github.com/d60-Lab/hourglass/pkg/reporter"
	"github.com/d60-Lab/hourglass/pkg/tracing"
)

// @title Hourglass API
// @version 1.0
// @description Social graph, daily grids and feed for the hourglass app.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	sentryOn, err := reporter.Init(cfg.Sentry)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer reporter.Flush()

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			logger.Fatal("auto migrate", zap.Error(err))
		}
	}
	repos := repository.New(db)

	// 事件总线：缓存失效 + 审计日志
	bus := event.NewBus(cfg.Events.QueueSize)
	bus.Subscribe(event.AuditLogger())

	var (
		profiles  service.ProfileCache
		lastFeeds service.LastFeedStore
	)
	if cfg.Redis.Enabled {
		rdb, err := pkgcache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("init redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		pc := cache.NewProfileCache(rdb, cfg.Redis.TTL)
		fc := cache.NewFeedCache(rdb, cfg.Feed.LastFeedTTL)
		bus.Subscribe(cache.NewInvalidator(pc, fc))
		profiles, lastFeeds = pc, fc
	}
	stopBus := bus.Start(cfg.Events.Workers)

	users := service.NewUserDirectory(repos, profiles, bus, nil)
	rel := service.NewRelationshipService(repos, bus, nil)
	store := service.NewProductivityStore(repos, bus, nil, cfg.Feed.HistoryMaxDays)
	social := service.NewSocialService(repos, rel, nil)
	feed := service.NewFeedAssembler(users, rel, store, social, lastFeeds, service.FeedOptions{
		Concurrency:  cfg.Feed.Concurrency,
		FetchTimeout: cfg.Feed.FetchTimeout,
	}, nil)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}
	h := handler.New(handler.Services{
		Users:        users,
		Relations:    rel,
		Productivity: store,
		Feed:         feed,
		Social:       social,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, cfg.Feed.Location())

	opts := api.Options{Sentry: sentryOn, Tracing: cfg.Tracing.Enabled}
	if cfg.JWT.Secret != "" {
		opts.Verifier = middleware.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	} else {
		logger.Warn("jwt.secret is empty, requests are trusted without authentication")
	}
	router := api.NewRouter(cfg, h, opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	// HTTP 停止后再排空事件队列
	if err := stopBus(sctx); err != nil {
		logger.Error("event bus shutdown", zap.Error(err))
	}
	if err := shutdownTracing(sctx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}
