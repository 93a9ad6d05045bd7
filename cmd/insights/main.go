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

	"github.com/hibiken/asynq"

	"github.com/campus-insights/campus-insights/internal/app"
	"github.com/campus-insights/campus-insights/internal/assignment"
	"github.com/campus-insights/campus-insights/internal/audit"
	"github.com/campus-insights/campus-insights/internal/etl"
	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/observability"
	"github.com/campus-insights/campus-insights/internal/org"
	"github.com/campus-insights/campus-insights/internal/platform/cache"
	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/rbac"
	"github.com/campus-insights/campus-insights/internal/scope"
	"github.com/campus-insights/campus-insights/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	auditRepo := audit.NewRepository(enginePool)
	auditService := audit.NewService(auditRepo)
	recorder := audit.NewRecorder(auditRepo, logger, cfg.AuditWriteTimeout, metrics.IncAuditDropped)

	rbacMW := rbac.Middleware{
		Logger: logger,
		Audit: func(_ context.Context, id identity.Identity, resource rbac.Resource, permission rbac.Permission, allowed bool) {
			if allowed {
				return
			}
			recorder.Failure(id.Username, string(id.Role), "permission_denied", string(resource), string(permission))
		},
	}

	assignmentRepo := assignment.NewRepository(enginePool, warehousePool)
	assignmentService := assignment.NewService(assignmentRepo)
	assignmentHandler := assignment.NewHandler(logger, assignmentService, recorder, rbacMW)

	auditHandler := audit.NewHandler(logger, auditService, recorder, rbacMW)

	etlRepo := etl.NewRepository(enginePool, warehousePool)
	etlService := etl.NewService(etlRepo, asynqClient)
	etlHandler := etl.NewHandler(logger, etlService, recorder, rbacMW)

	usersRepo := users.NewRepository(enginePool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, recorder, rbacMW)

	orgRepo := org.NewRepository(warehousePool)
	orgHandler := org.NewHandler(logger, orgRepo, rbacMW)

	resolver := scope.NewResolver(assignmentService)
	scopeHandler := scope.NewHandler(logger, resolver)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AssignmentHandler: assignmentHandler,
		AuditHandler:      auditHandler,
		EtlHandler:        etlHandler,
		UsersHandler:      usersHandler,
		OrgHandler:        orgHandler,
		ScopeHandler:      scopeHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
