package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/consultium-ai/demo-booking-service/internal/api/http"
	"github.com/consultium-ai/demo-booking-service/internal/api/http/handlers"
	"github.com/consultium-ai/demo-booking-service/internal/config"
	"github.com/consultium-ai/demo-booking-service/internal/events"
	"github.com/consultium-ai/demo-booking-service/internal/notify"
	"github.com/consultium-ai/demo-booking-service/internal/observability"
	"github.com/consultium-ai/demo-booking-service/internal/persistence"
	"github.com/consultium-ai/demo-booking-service/internal/repository"
	"github.com/consultium-ai/demo-booking-service/internal/service"
	"github.com/consultium-ai/demo-booking-service/internal/worker"
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

	if pg.Configured() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	draftRepo := repository.NewDraftRepository(redis.Client, cfg.Session.SessionTTL())
	auditLog := repository.NewDeliveryLogRepository(pg.PoolHandle())

	metrics := observability.NewMetrics()
	eventBus := events.NewInMemoryDispatcher()

	monitor := service.NewDeliveryMonitor(eventBus, auditLog, logger, cfg.Notify)
	worker.StartDeliveryMonitor(monitor)

	transport := buildTransport(cfg.Notify, logger)
	dispatcher := service.NewDispatchService(service.DispatchDependencies{
		Transport:      transport,
		Channels:       cfg.Notify.Channels,
		LastResort:     cfg.Notify.LastResortChannel,
		AttemptTimeout: cfg.Notify.AttemptTimeout(),
		Events:         eventBus,
		Metrics:        metrics,
		AuditLog:       auditLog,
		Logger:         logger,
	})

	availability := service.NewAvailabilityService(cfg.Availability.Rule, time.Now)
	composer := service.NewMessageComposer(cfg.Notify.OwnerEmail, cfg.Notify.OwnerName, cfg.Notify.FallbackContact)

	wizard := service.NewWizardService(service.WizardDependencies{
		Availability: availability,
		Dispatcher:   dispatcher,
		DraftRepo:    draftRepo,
		Composer:     composer,
		Events:       eventBus,
		Metrics:      metrics,
		Logger:       logger,
	})
	contact := service.NewContactService(dispatcher, composer, eventBus, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Calendar: handlers.NewCalendarHandler(availability),
		Bookings: handlers.NewBookingsHandler(wizard),
		Contact:  handlers.NewContactHandler(contact),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildTransport(cfg config.NotifyConfig, logger *zap.Logger) notify.Transport {
	switch cfg.Provider {
	case "emailjs":
		return notify.NewEmailJSTransport(notify.EmailJSConfig{
			BaseURL:   cfg.EmailJSBaseURL,
			ServiceID: cfg.EmailJSServiceID,
			PublicKey: cfg.EmailJSPublicKey,
		}, nil, logger)
	case "sendgrid":
		return notify.NewSendGridTransport(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFrom,
			FromName:  cfg.SendGridFromName,
		}, logger)
	default:
		return notify.NewStubTransport(logger)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
