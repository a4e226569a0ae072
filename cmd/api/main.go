package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/locallink/locallink-backend/api/routes"
	"github.com/locallink/locallink-backend/internal/marketplace"
	"github.com/locallink/locallink-backend/internal/recommendations"
	"github.com/locallink/locallink-backend/pkg/config"
	"github.com/locallink/locallink-backend/pkg/env"
	"github.com/locallink/locallink-backend/pkg/gemini"
	"github.com/locallink/locallink-backend/pkg/logger"
	"github.com/locallink/locallink-backend/pkg/metrics"
	"github.com/locallink/locallink-backend/pkg/redis"
	"github.com/locallink/locallink-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	store, closeStore, err := openBlobStore(ctx, cfg, logg, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to open blob store", err)
		os.Exit(1)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := marketplace.Options{
		Hasher:            security.NewHasher(cfg.Password),
		AuthLatency:       cfg.Session.AuthLatency,
		StrictTransitions: cfg.Orders.StrictTransitions,
		Logger:            logg,
		Metrics:           metrics.NewMarketplaceMetrics(registry),
	}
	if cfg.Recommendations.Remote() {
		client, err := gemini.NewClient(
			cfg.Recommendations.APIKey,
			gemini.WithModel(cfg.Recommendations.Model),
			gemini.WithBaseURL(cfg.Recommendations.BaseURL),
			gemini.WithTimeout(cfg.Recommendations.Timeout),
		)
		if err != nil {
			logg.Error(ctx, "failed to create gemini client", err)
			os.Exit(1)
		}
		remote, err := recommendations.NewGeminiRecommender(client)
		if err != nil {
			logg.Error(ctx, "failed to create recommender", err)
			os.Exit(1)
		}
		opts.Recommender = remote
		opts.Fallback = recommendations.KeywordRecommender{}
		logg.Info(logg.WithField(ctx, "model", client.Model()), "remote recommendations enabled")
	}

	app, err := marketplace.New(ctx, store, opts)
	if err != nil {
		logg.Error(ctx, "failed to load marketplace state", err)
		os.Exit(1)
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.Persistence.Driver,
	})
	logg.Info(runCtx, "starting api server")
	if cfg.App.IsDev() {
		logg.Info(logg.WithFields(runCtx, map[string]any{
			"merchant": "merchant@test.com",
			"shopper":  "shopper@test.com",
		}), "seed accounts available with the default password")
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, app, redisClient, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(runCtx, "graceful shutdown failed", err)
	}
	if err := app.Flush(shutdownCtx); err != nil {
		logg.Error(runCtx, "final flush failed", err)
	}
	logg.Info(runCtx, "api server stopped")
}
