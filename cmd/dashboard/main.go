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

	httptransport "github.com/spec-kit/helpdesk-sync/internal/api/http"
	"github.com/spec-kit/helpdesk-sync/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-sync/internal/backend"
	"github.com/spec-kit/helpdesk-sync/internal/config"
	"github.com/spec-kit/helpdesk-sync/internal/escalation"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/notify"
	"github.com/spec-kit/helpdesk-sync/internal/observability"
	"github.com/spec-kit/helpdesk-sync/internal/persistence"
	"github.com/spec-kit/helpdesk-sync/internal/repository"
	"github.com/spec-kit/helpdesk-sync/internal/scheduler"
	"github.com/spec-kit/helpdesk-sync/internal/service"
	"github.com/spec-kit/helpdesk-sync/internal/state"
	"github.com/spec-kit/helpdesk-sync/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var journal repository.SyncJournalRepository
	if pg.Enabled() {
		journal = repository.NewSyncJournalRepository(pg.Pool)
	} else {
		journal = repository.NewMemorySyncJournal(200)
	}
	var outbox repository.NotificationOutboxRepository
	if redis.Enabled() {
		outbox = repository.NewRedisOutbox(redis.Client, repository.DefaultOutboxKey)
	} else {
		outbox = repository.NewMemoryOutbox()
	}

	metrics := observability.NewMetrics()
	store := state.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	client := backend.NewClient(cfg.Backend, logger)
	factory := notify.NewFactory(logger, notify.WithAlerter(alerters(cfg.Notification, cfg.Backend.RequestTimeout)))

	rankings := service.NewRankingService(client, store, logger)
	ticketSync := service.NewTicketSyncService(service.TicketSyncDependencies{
		Backend:    client,
		Store:      store,
		Factory:    factory,
		Rankings:   rankings,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	notificationSync := service.NewNotificationSyncService(service.NotificationSyncDependencies{
		Backend:    client,
		Store:      store,
		Outbox:     outbox,
		Retention:  cfg.Sync.OutboxRetention,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	readState := service.NewReadStateService(client, store, outbox, logger)
	ticketActions := service.NewTicketActionService(client, store, rankings, logger)
	chat := service.NewChatService(service.ChatDependencies{
		Backend:    client,
		Store:      store,
		Factory:    factory,
		Dispatcher: dispatcher,
		AdminID:    cfg.Backend.AdminID,
		Logger:     logger,
	})

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, outbox, journal, logger))

	_ = ticketSync.Load(ctx)
	notificationSync.Restore(ctx)

	sched := scheduler.New(logger, scheduler.Options{SkipIfRunning: cfg.Sync.SkipIfRunning})
	if err := worker.StartSyncWorkers(sched, worker.SyncLoops{
		Tickets:       ticketSync,
		Notifications: notificationSync,
	}, cfg.Sync, logger); err != nil {
		logger.Fatal("failed to start sync workers", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, pg, redis, metrics),
		Dashboard:     handlers.NewDashboardHandler(store, escalation.NewClassifier(nil), sched, journal),
		TicketActions: handlers.NewTicketActionsHandler(ticketActions),
		Notifications: handlers.NewNotificationsHandler(store, readState),
		Chat:          handlers.NewChatHandler(store, chat),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("dashboard listening", zap.String("addr", cfg.App.Addr()), zap.String("backend", cfg.Backend.BaseURL))

	waitForShutdown(logger)

	store.Dispose()
	sched.Stop()
	_ = app.ShutdownWithTimeout(5 * time.Second)
}

func alerters(cfg config.NotificationConfig, timeout time.Duration) notify.Alerter {
	var sinks notify.MultiAlerter
	if cfg.Bell {
		sinks = append(sinks, notify.BellAlerter{Out: os.Stdout})
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.WebhookAlerter{URL: cfg.WebhookURL, Timeout: timeout})
	}
	if len(sinks) == 0 {
		return notify.NopAlerter{}
	}
	return sinks
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
