package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newslens/newslens/internal/config"
	"github.com/newslens/newslens/internal/feedcache"
	"github.com/newslens/newslens/internal/handlers"
	"github.com/newslens/newslens/internal/news"
	"github.com/newslens/newslens/internal/persist"
	"github.com/newslens/newslens/internal/router"
)

func main() {
	serverCfg := config.GetServerConfig()
	logger := newLogger(serverCfg.LogFormat)

	backend, err := newBackend(config.GetStorageConfig())
	if err != nil {
		logger.Error("failed to initialize persistence backend", "error", err)
		os.Exit(1)
	}

	cacheCfg := config.GetCacheConfig()
	cache := feedcache.New(feedcache.Config{
		BudgetBytes: cacheCfg.BudgetBytes,
		TTL:         cacheCfg.TTL,
	}, backend, logger)

	newsCfg := config.GetNewsConfig()
	client := news.NewClient(newsCfg.BaseURL, newsCfg.APIKey, newsCfg.RequestsPerMinute, logger)

	engine := router.Setup(logger,
		handlers.NewFeedHandler(cache, client, logger),
		handlers.NewStatsHandler(cache, logger),
	)

	srv := &http.Server{
		Addr:    serverCfg.ListenAddr,
		Handler: engine,
	}

	go func() {
		logger.Info("server starting", "addr", serverCfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if err := cache.Close(ctx); err != nil {
		logger.Warn("cache close failed", "error", err)
	}
}

func newLogger(format string) *slog.Logger {
	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, nil)
	default:
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newBackend(cfg *config.StorageConfig) (persist.Store, error) {
	switch cfg.Backend {
	case "minio":
		return persist.NewMinioStore(persist.MinioConfig{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Bucket:          cfg.Bucket,
			UseSSL:          cfg.UseSSL,
		})
	default:
		return persist.NewMemory(), nil
	}
}
