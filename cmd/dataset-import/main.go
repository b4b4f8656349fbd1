package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"desmatamento/internal/amqp"
	"desmatamento/internal/backend"
	"desmatamento/internal/cli"
	"desmatamento/internal/dataset"
	"desmatamento/internal/log"
	"desmatamento/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)

	from := flag.String("from", string(backend.FilesBackend), "source to import from: files or sheets")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite snapshot database")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall import timeout")
	flag.Parse()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	backendCfg.Type = backend.BackendType(*from)
	if backendCfg.Type == backend.SQLiteBackend {
		fmt.Fprintln(os.Stderr, "dataset-import: -from sqlite would import the snapshot into itself")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, log.FieldBackend, *from)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	repo := cli.InitSQLite(logger, *dbPath)
	defer repo.Close()

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Warn("AMQP unavailable, import event will not be published", log.FieldError, err)
		} else {
			publisher = client
		}
	}

	svc := services.NewDatasetService(dataset.NewLoader(result.Source, logger), publisher, logger)
	defer svc.Close()
	imp, err := svc.Import(ctx, repo)
	if err != nil {
		logger.Error("Import failed", log.FieldError, err, log.FieldOperation, log.OpImport)
		svc.Close()
		repo.Close()
		os.Exit(1)
	}

	fmt.Printf("imported %d deforestation and %d economic rows from %s into %s\n",
		imp.DeforestationRows, imp.EconomicRows, imp.Source, *dbPath)
}
