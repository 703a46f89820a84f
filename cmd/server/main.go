package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Skotchmaster/meat_shop/internal/cache"
	"github.com/Skotchmaster/meat_shop/internal/config"
	"github.com/Skotchmaster/meat_shop/internal/db"
	"github.com/Skotchmaster/meat_shop/internal/events"
	"github.com/Skotchmaster/meat_shop/internal/httpserver"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	authmw "github.com/Skotchmaster/meat_shop/internal/middleware/auth"
	"github.com/Skotchmaster/meat_shop/internal/middleware/metrics"
	"github.com/Skotchmaster/meat_shop/internal/repo"
	"github.com/Skotchmaster/meat_shop/internal/search"
	"github.com/Skotchmaster/meat_shop/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.MustServer()

	logger := logging.New(cfg.LogLevel, os.Stdout).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	r := repo.New(gdb)

	productCache := newProductCache(cfg, logger)
	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	var indexer search.Indexer = search.NopIndexer{}
	var searcher search.Searcher = &search.DBSearcher{Repo: r}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			es := &search.Elastic{ES: esClient, Index: cfg.ESIndex}
			indexer, searcher = es, es
		}
	}

	authSvc := service.NewAuthService(r, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	seedSvc := &service.SeedService{Repo: r, Admins: cfg.Admins}

	seedCtx, seedCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
	if _, err := seedSvc.Run(seedCtx); err != nil {
		logger.Error("seed_failed", "error", err)
	}
	seedCancel()

	e := httpserver.New(logger, &httpserver.Deps{
		DB: gdb,
		Products: &httpserver.ProductHTTP{
			Svc:      service.NewCatalogService(r, productCache, indexer, publisher),
			Searcher: searcher,
		},
		Categories: &httpserver.CategoryHTTP{Svc: service.NewCategoryService(r, publisher)},
		Auth:       &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		Seed:       &httpserver.SeedHTTP{Svc: seedSvc, Secret: cfg.SeedSecret},
		AuthMW:     authmw.NewAutoRefreshMiddleware(cfg.JWTAccessSecret, authSvc, cfg.CookieSecure),
		Metrics:    metrics.New(cfg.ServiceName),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server_stopped")
}

func newProductCache(cfg config.Config, logger *slog.Logger) cache.ProductCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.ProductCacheTTL)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis_unavailable", "error", err)
		return cache.NewMemory(cfg.ProductCacheTTL)
	}
	return cache.NewRedis(client, "", cfg.ProductCacheTTL)
}

func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	p, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Warn("kafka_unavailable", "error", err)
		return events.Nop{}
	}
	return p
}
