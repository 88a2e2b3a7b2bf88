// Command etl runs one batch over every file in the input directory and
// exits. Intended for cron and one-off backfills; the long-running trigger
// surface lives in cmd/server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/cargoport/etl/internal/config"
	"github.com/cargoport/etl/internal/logging"
	"github.com/cargoport/etl/internal/pipeline"
	"github.com/cargoport/etl/internal/store"
)

func main() {
	var (
		file     = flag.String("file", "", "process a single file instead of the whole input directory")
		fileType = flag.String("type", "auto", "entity type hint for -file: customers, products, orders or auto")
	)
	flag.Parse()

	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	st := store.New(pool)
	logger := slog.Default()
	reader := pipeline.NewReader(cfg.ETL.InputDir)
	loader := pipeline.NewLoader(st, logger)
	reporter := pipeline.NewReporter(cfg.ETL.OutputDir, cfg.ETL.ErrorsDir, logger)
	orchestrator := pipeline.NewOrchestrator(reader, loader, reporter, pipeline.DefaultMappings(), cfg.ETL.OutputDir, logger)

	var report pipeline.RunReport
	if *file != "" {
		report, err = orchestrator.RunFile(ctx, *file, pipeline.EntityType(*fileType))
	} else {
		report, err = orchestrator.Run(ctx)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	os.Stdout.Write(append(out, '\n'))
}
