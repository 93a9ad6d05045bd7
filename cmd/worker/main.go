package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/campus-insights/campus-insights/internal/app"
	"github.com/campus-insights/campus-insights/internal/etl"
	jobmetrics "github.com/campus-insights/campus-insights/internal/jobs"
	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	enginePool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect engine store", slog.Any("error", err))
		os.Exit(1)
	}
	defer enginePool.Close()

	warehousePool, err := db.New(ctx, cfg.WarehouseDSN)
	if err != nil {
		logger.Error("connect warehouse", slog.Any("error", err))
		os.Exit(1)
	}
	defer warehousePool.Close()

	pipelineJob := &jobs.PipelineJob{
		Logger: logger,
		Runner: jobs.CommandRunner{
			Command: cfg.EtlCommand,
			Timeout: cfg.EtlTimeout,
			Logger:  logger,
		},
		Runs:    etl.NewRepository(enginePool, warehousePool),
		Metrics: jobmetrics.NewMetrics(nil),
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: etl.TaskTypePipeline, Handler: pipelineJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
