package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/emergency-services/internal/api/http"
	"github.com/spec-kit/emergency-services/internal/api/http/handlers"
	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/observability"
	"github.com/spec-kit/emergency-services/internal/persistence"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	"github.com/spec-kit/emergency-services/internal/worker"
)

func main() {
	cfg, err := config.Load("inventory-service")
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	inventoryService := service.NewInventoryService(service.InventoryDependencies{
		ItemRepo:   repository.NewInventoryRepository(pg.PoolHandle()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	introspector := remote.NewIntrospectionClient(cfg.Services.AuthIntrospectURL, cfg.Services.IntrospectTimeout(), logger)
	authMiddleware := remote.NewAuthMiddleware(introspector)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, nil)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)

	httptransport.RegisterInventoryRoutes(app, httptransport.InventoryRouteConfig{
		Health:         healthHandler,
		Inventory:      inventoryHandler,
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
