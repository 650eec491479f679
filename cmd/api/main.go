package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/ai"
	httptransport "github.com/spec-kit/ticket-assignment/internal/api/http"
	"github.com/spec-kit/ticket-assignment/internal/api/http/handlers"
	"github.com/spec-kit/ticket-assignment/internal/auth"
	"github.com/spec-kit/ticket-assignment/internal/calendar"
	"github.com/spec-kit/ticket-assignment/internal/config"
	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/events"
	"github.com/spec-kit/ticket-assignment/internal/observability"
	"github.com/spec-kit/ticket-assignment/internal/persistence"
	"github.com/spec-kit/ticket-assignment/internal/repository"
	"github.com/spec-kit/ticket-assignment/internal/service"
	"github.com/spec-kit/ticket-assignment/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(
			observability.WithNamespace(cfg.Metrics.Namespace),
			observability.WithProcessMetrics(),
		)
	}

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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)

	var (
		roster        service.TechnicianDirectory
		assignmentLog repository.AssignmentRepository
	)
	if pool != nil {
		roster = repository.NewTechnicianRepository(pool)
		assignmentLog = repository.NewAssignmentRepository(pool)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAssignmentPipeline(worker.AssignmentPipeline{
		Dispatcher:    dispatcher,
		Stream:        events.NewStreamPublisher(redis.Client, cfg.Events.StreamName, cfg.Events.StreamMaxLen, logger),
		Notifications: service.NewNotificationService(dispatcher, logger, cfg.Notification),
	}, logger)

	var inferrer service.SkillInferrer
	if cfg.SkillInference.BaseURL != "" {
		inferrer = ai.NewCompletionClient(cfg.SkillInference, ai.NewRedisCache(redis.Client), logger)
	} else {
		logger.Info("SKILL_INFERENCE_BASE_URL not set; using static skill table")
	}

	var calendarClient service.CalendarClient
	if gc, err := calendar.NewGoogleClient(ctx, cfg.Calendar); err != nil {
		if errors.Is(err, calendar.ErrNotConfigured) {
			logger.Info("calendar not configured; availability checks fail open")
		} else {
			logger.Warn("calendar client unavailable; availability checks fail open", zap.Error(err))
		}
	} else {
		calendarClient = gc
	}

	policy := service.TierPolicyWithActive(cfg.Assignment.ActiveTiers)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		Analyzer:     service.NewSkillAnalyzer(inferrer, cfg.SkillInference.Timeout(), logger, metrics),
		Directory:    roster,
		Availability: service.NewAvailabilityChecker(calendarClient, cfg.Calendar.Timeout(), logger, metrics),
		Policy:       &policy,
		Fallback: domain.FallbackIdentity{
			Name:  cfg.Assignment.FallbackName,
			Email: cfg.Assignment.FallbackEmail,
		},
		Records:     assignmentLog,
		Dispatcher:  dispatcher,
		Concurrency: cfg.Assignment.AvailabilityConcurrency,
		Logger:      logger,
		Metrics:     metrics,
	})

	authService := service.NewAuthService(cfg.Auth, staffRepo, logger)
	if pool != nil {
		if err := authService.BootstrapAdmin(ctx); err != nil {
			logger.Warn("bootstrap admin failed", zap.Error(err))
		}
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Assignments:    handlers.NewAssignmentsHandler(assignmentService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
