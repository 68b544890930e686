package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lending-service/internal/api/http"
	"github.com/spec-kit/lending-service/internal/api/http/handlers"
	"github.com/spec-kit/lending-service/internal/auth"
	"github.com/spec-kit/lending-service/internal/cache"
	"github.com/spec-kit/lending-service/internal/config"
	"github.com/spec-kit/lending-service/internal/events"
	"github.com/spec-kit/lending-service/internal/observability"
	"github.com/spec-kit/lending-service/internal/persistence"
	"github.com/spec-kit/lending-service/internal/repository"
	"github.com/spec-kit/lending-service/internal/service"
	"github.com/spec-kit/lending-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	loanRepo := repository.NewLoanRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	reputationRepo := repository.NewReputationRepository(pool)
	scoreRepo := repository.NewCreditScoreRepository(pool)

	store := cache.NewRedisStore(redis.Client)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	scoreService := service.NewCreditScoreService(service.CreditScoreDependencies{
		UserRepo:        userRepo,
		LoanRepo:        loanRepo,
		ReputationRepo:  reputationRepo,
		CreditScoreRepo: scoreRepo,
		Cache:           store,
		CacheTTL:        cfg.Recalc.ScoreCacheTTL,
		Metrics:         metrics,
		Logger:          logger,
	})
	auditTrigger := service.NewAuditTrigger(logger)
	worker.StartScoreTriggers(dispatcher, scoreService, auditTrigger)
	worker.StartPeriodicRecalculation(ctx, scoreService, cfg.Recalc.Interval(), logger)

	notificationService := service.NewNotificationService(logger, cfg.Notification)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, notificationService, store, cfg.Notification, logger)
	loanService := service.NewLoanService(loanRepo, dispatcher, logger)
	paymentService := service.NewPaymentService(paymentRepo, loanRepo, dispatcher, logger)
	reputationService := service.NewReputationService(reputationRepo, dispatcher, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		CreditScores:   handlers.NewCreditScoresHandler(scoreService),
		Servicing:      handlers.NewServicingHandler(loanService, paymentService, reputationService),
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
