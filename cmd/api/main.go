package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/webcodesigner/pricemanager-backend/api/controllers"
	"github.com/webcodesigner/pricemanager-backend/api/routes"
	"github.com/webcodesigner/pricemanager-backend/internal/catalog"
	"github.com/webcodesigner/pricemanager-backend/internal/csvimport"
	"github.com/webcodesigner/pricemanager-backend/internal/customprices"
	"github.com/webcodesigner/pricemanager-backend/internal/importfiles"
	"github.com/webcodesigner/pricemanager-backend/internal/pricecache"
	"github.com/webcodesigner/pricemanager-backend/internal/pricing"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
	"github.com/webcodesigner/pricemanager-backend/pkg/metrics"
	"github.com/webcodesigner/pricemanager-backend/pkg/migrate"
	"github.com/webcodesigner/pricemanager-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, price cache versioning disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	importMetrics := metrics.NewImportMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	customPricesRepo := customprices.NewRepository(dbClient.DB())
	importFilesRepo := importfiles.NewRepository(dbClient.DB())

	var priceCache *pricecache.Cache
	if redisClient != nil {
		priceCache = pricecache.New(redisClient, logg)
	}

	importer, err := csvimport.NewImporter(csvimport.ImporterParams{
		Catalog:  catalogRepo,
		Custom:   customPricesRepo,
		Refs:     importFilesRepo,
		Cache:    priceCache,
		Metrics:  importMetrics,
		Logger:   logg,
		Decimals: cfg.Pricing.Decimals,
		Currency: cfg.Pricing.CurrencySymbol,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create importer", err)
		os.Exit(1)
	}

	customPricesSvc, err := customprices.NewService(customprices.ServiceParams{
		Repo:   customPricesRepo,
		Cache:  priceCache,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create custom prices service", err)
		os.Exit(1)
	}

	resolver, err := pricing.NewResolver(customPricesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create price resolver", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisPinger,
			Importer:        importer,
			CatalogRepo:     catalogRepo,
			CustomPricesSvc: customPricesSvc,
			ImportFilesRepo: importFilesRepo,
			Resolver:        resolver,
			MetricsRegistry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
