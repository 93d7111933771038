package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/observability"
)

// Loop names used for scheduling, metrics and the sync journal.
const (
	TicketLoop       = "tickets"
	NotificationLoop = "notifications"
)

// CycleReport summarises one run of a sync loop.
type CycleReport struct {
	Loop      string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   events.CycleOutcome
	Items     int
	Changes   int
	Err       error
}

type cycleRecorder struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func (r cycleRecorder) finish(ctx context.Context, report CycleReport) CycleReport {
	r.metrics.RecordCycle(report.Loop, report.StartedAt, report.Duration, report.Changes, report.Err)

	fields := []zap.Field{
		zap.String("loop", report.Loop),
		zap.String("outcome", string(report.Outcome)),
		zap.Int("items", report.Items),
		zap.Int("changes", report.Changes),
		zap.Duration("duration", report.Duration),
	}
	if report.Err != nil {
		r.logger.Warn("sync cycle failed", append(fields, zap.Error(report.Err))...)
	} else {
		r.logger.Debug("sync cycle finished", fields...)
	}

	if r.dispatcher == nil {
		return report
	}
	payload := events.CycleCompletedPayload{
		Loop:      report.Loop,
		StartedAt: report.StartedAt,
		Duration:  report.Duration,
		Outcome:   report.Outcome,
		Items:     report.Items,
		Changes:   report.Changes,
	}
	if report.Err != nil {
		payload.Error = report.Err.Error()
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventCycleCompleted,
		Timestamp: report.StartedAt.Add(report.Duration),
		Payload:   payload,
	})
	return report
}

func publishProduced(ctx context.Context, dispatcher events.Dispatcher, source string, produced domain.Notifications, at time.Time) {
	if dispatcher == nil || len(produced) == 0 {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		Type:      events.EventNotificationsProduced,
		Timestamp: at,
		Payload: events.NotificationsProducedPayload{
			Source:        source,
			Notifications: produced.Clone(),
		},
	})
}
