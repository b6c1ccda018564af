package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-registration-service/internal/api/http"
	"github.com/spec-kit/event-registration-service/internal/api/http/handlers"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/config"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/observability"
	"github.com/spec-kit/event-registration-service/internal/persistence"
	"github.com/spec-kit/event-registration-service/internal/repository"
	"github.com/spec-kit/event-registration-service/internal/service"
	"github.com/spec-kit/event-registration-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	stores := repository.NewStores(pool)
	unitOfWork := repository.NewUnitOfWork(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	userService := service.NewUserService(stores.Users, cfg.Auth.BcryptCost)
	authService := service.NewAuthService(cfg.Auth, stores.Users, userService)
	eventCache := service.NewEventCache(redis.Client, cfg.Redis.CacheTTL(), logger)
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:        stores.Events,
		UserRepo:         stores.Users,
		RegistrationRepo: stores.Registrations,
		Cache:            eventCache,
		Dispatcher:       dispatcher,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		UnitOfWork: unitOfWork,
		Stores:     stores,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), stores.Users)
	authorizer := auth.NewAuthorizer(stores.Events, stores.Registrations)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService, authorizer),
		Events:         handlers.NewEventsHandler(eventService, authorizer),
		Registrations:  handlers.NewRegistrationsHandler(registrationService, authorizer),
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
