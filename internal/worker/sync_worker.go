package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/config"
	"github.com/spec-kit/helpdesk-sync/internal/scheduler"
	"github.com/spec-kit/helpdesk-sync/internal/service"
)

// SyncLoops are the two poll loops the worker schedules.
type SyncLoops struct {
	Tickets       *service.TicketSyncService
	Notifications *service.NotificationSyncService
}

// StartSyncWorkers registers both loops, starts the scheduler and kicks off
// one immediate run of each without waiting for it.
func StartSyncWorkers(sched *scheduler.Scheduler, loops SyncLoops, cfg config.SyncConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loops.Tickets != nil {
		if err := sched.Every(service.TicketLoop, cfg.TicketInterval, func(ctx context.Context) {
			loops.Tickets.Cycle(ctx)
		}); err != nil {
			return err
		}
	}
	if loops.Notifications != nil {
		if err := sched.Every(service.NotificationLoop, cfg.NotificationInterval, func(ctx context.Context) {
			loops.Notifications.Cycle(ctx)
		}); err != nil {
			return err
		}
	}

	sched.Start()
	for _, name := range sched.Names() {
		go sched.RunNow(name)
	}
	logger.Info("sync workers started",
		zap.Strings("loops", sched.Names()),
		zap.Duration("ticket_interval", cfg.TicketInterval),
		zap.Duration("notification_interval", cfg.NotificationInterval))
	return nil
}
