package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/idrefz/deltaboard/internal/api/http"
	"github.com/idrefz/deltaboard/internal/api/http/handlers"
	"github.com/idrefz/deltaboard/internal/auth"
	"github.com/idrefz/deltaboard/internal/config"
	"github.com/idrefz/deltaboard/internal/events"
	"github.com/idrefz/deltaboard/internal/observability"
	"github.com/idrefz/deltaboard/internal/persistence"
	"github.com/idrefz/deltaboard/internal/repository"
	"github.com/idrefz/deltaboard/internal/service"
	"github.com/idrefz/deltaboard/internal/snapshot"
	"github.com/idrefz/deltaboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	healthChecks := map[string]handlers.Pinger{}

	var store snapshot.Store
	switch cfg.Snapshot.Backend {
	case "postgres":
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if pg.PoolHandle() == nil {
			logger.Fatal("postgres backend selected but POSTGRES_DSN not set")
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewSnapshotRepository(pg.PoolHandle())
		healthChecks["postgres"] = pg
	default:
		fileStore, err := snapshot.NewFileStore(cfg.Snapshot.DataDir)
		if err != nil {
			logger.Fatal("failed to init snapshot dir", zap.Error(err))
		}
		store = fileStore
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	healthChecks["redis"] = redis

	dispatcher := events.NewInMemoryDispatcher()

	authService, err := service.NewAuthService(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	uploadService := service.NewUploadService(service.UploadDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		Store:    store,
		Redis:    redis,
		CacheTTL: cfg.Redis.SummaryCacheTTL,
		Logger:   logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Snapshot.MaxUploadBytes()),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(healthChecks),
		Auth:           handlers.NewAuthHandler(authService),
		Uploads:        handlers.NewUploadsHandler(uploadService, reportService, cfg.Snapshot.MaxUploadBytes()),
		Dashboard:      handlers.NewDashboardHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
