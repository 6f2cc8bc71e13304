package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crisis-service/internal/api/http"
	"github.com/spec-kit/crisis-service/internal/api/http/handlers"
	"github.com/spec-kit/crisis-service/internal/auth"
	"github.com/spec-kit/crisis-service/internal/config"
	"github.com/spec-kit/crisis-service/internal/events"
	"github.com/spec-kit/crisis-service/internal/observability"
	"github.com/spec-kit/crisis-service/internal/persistence"
	"github.com/spec-kit/crisis-service/internal/repository"
	"github.com/spec-kit/crisis-service/internal/repository/inmemory"
	"github.com/spec-kit/crisis-service/internal/service"
	"github.com/spec-kit/crisis-service/internal/worker"
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

	var (
		userRepo         repository.UserRepository
		reportRepo       repository.ReportRepository
		notificationRepo repository.NotificationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		reportRepo = repository.NewReportRepository(pool)
		notificationRepo = repository.NewNotificationRepository(pool)
	} else {
		logger.Warn("running with in-memory repositories; data will not survive restart")
		userRepo = inmemory.NewUserStore()
		reportRepo = inmemory.NewReportStore()
		notificationRepo = inmemory.NewNotificationStore()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLHour)
	policy := auth.NewPolicy(auth.DefaultRules())
	identity := auth.NewMiddleware(tokens, policy)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo)
	reportService := service.NewReportService(reportRepo, userRepo, notificationService, dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUsersHandler(authService, userService),
		Reports:       handlers.NewReportsHandler(reportService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Identity:      identity,
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
