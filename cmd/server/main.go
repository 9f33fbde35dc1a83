package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storyverse/storyverse/config"
	"github.com/storyverse/storyverse/internal/api"
	"github.com/storyverse/storyverse/internal/api/handler"
	"github.com/storyverse/storyverse/internal/cache"
	"github.com/storyverse/storyverse/internal/repository"
	"github.com/storyverse/storyverse/internal/service"
	"github.com/storyverse/storyverse/internal/tracing"
	"github.com/storyverse/storyverse/pkg/database"
	"github.com/storyverse/storyverse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, "storyverse", cfg.Tracing.Endpoint)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() {
				_ = shutdown(context.Background())
			}()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		return
	}

	var c cache.Cache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		c = cache.NewRedisCache(client, cfg.Redis.TTL)
	}
	loader := cache.NewLoader(c)

	storyRepo := repository.NewStoryRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	notifier := service.NewLogNotifier()
	feed := service.NewFeedService(storyRepo, loader)
	collections := service.NewCollectionService(collectionRepo, loader, notifier)
	stats := service.NewStatsService(storyRepo, profileRepo, reviewRepo, loader)
	reviews := service.NewReviewService(reviewRepo, loader)

	r := api.NewRouter(cfg, handler.New(feed, collections, stats, reviews))
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
