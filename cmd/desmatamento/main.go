package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"desmatamento/internal/amqp"
	"desmatamento/internal/backend"
	"desmatamento/internal/cache"
	"desmatamento/internal/charts"
	"desmatamento/internal/cli"
	"desmatamento/internal/dashboard"
	"desmatamento/internal/dataset"
	"desmatamento/internal/filter"
	apphttp "desmatamento/internal/http"
	"desmatamento/internal/log"
	"desmatamento/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, log.FieldBackend, backendCfg.Type)
		os.Exit(1)
	}

	// AMQP is optional; the dashboard works without it.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Warn("AMQP unavailable, dataset events disabled", log.FieldError, err)
		} else {
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
		}
	}

	datasets := services.NewDatasetService(dataset.NewLoader(result.Source, logger), publisher, logger)
	ds := datasets.Load(ctx)

	svc := dashboard.NewService(ds, dashboard.Options{
		Bounds: filter.Bounds{MinYear: cfg.MinYear, MaxYear: cfg.MaxYear},
		Defaults: filter.Defaults{
			YearStart: cfg.DefaultYearStart,
			YearEnd:   cfg.DefaultYearEnd,
			Size:      cfg.DefaultSelectionSize,
		},
		PageSize: cfg.TablePageSize,
	})

	sessions := cache.NewSessionStore(cfg.SessionMaxEntries, cfg.SessionTTL, svc.NewSelection)
	renderer := charts.NewRenderer(cfg.ChartCacheSize, cfg.SessionTTL, logger)

	caches := cache.NewManager(logger)
	caches.Register(sessions)
	caches.Register(renderer.Cache())
	caches.StartCleanup(5 * time.Minute)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:          ":" + cfg.Port,
		Dashboard:     svc,
		Sessions:      sessions,
		Charts:        renderer,
		Logger:        logger,
		Ready:         result.Ready,
		LatestImport:  result.LatestImport,
		SecureCookies: cfg.SecureCookies,

		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
		if err := datasets.Close(); err != nil {
			logger.Error("Failed to close publisher", log.FieldError, err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting desmatamento dashboard",
		"port", cfg.Port,
		log.FieldBackend, backendCfg.Type,
		log.FieldSource, ds.Source,
		log.FieldFallback, ds.Fallback,
		log.FieldOperation, log.OpStartup)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
