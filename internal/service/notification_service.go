package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
)

// NotificationService fans dispatched events out to the outbox and the sync
// journal.
type NotificationService struct {
	dispatcher events.Dispatcher
	outbox     NotificationOutbox
	journal    SyncJournal
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService creates the service. outbox and journal may be nil.
func NewNotificationService(dispatcher events.Dispatcher, outbox NotificationOutbox, journal SyncJournal, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		outbox:     outbox,
		journal:    journal,
		logger:     logger.Named("fanout"),
		now:        time.Now,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventNotificationsProduced, n.handleNotificationsProduced)
	n.dispatcher.Subscribe(events.EventCycleCompleted, n.handleCycleCompleted)
}

func (n *NotificationService) handleNotificationsProduced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationsProducedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("NotificationsProduced",
		zap.String("source", payload.Source),
		zap.Int("count", len(payload.Notifications)))
	if n.outbox == nil {
		return nil
	}
	queuedAt := event.Timestamp
	if queuedAt.IsZero() {
		queuedAt = n.now()
	}
	for _, notification := range payload.Notifications {
		if err := n.outbox.Add(ctx, domain.PendingNotification{Notification: notification, QueuedAt: queuedAt}); err != nil {
			return fmt.Errorf("queue notification %s: %w", notification.ID, err)
		}
	}
	return nil
}

func (n *NotificationService) handleCycleCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CycleCompletedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if n.journal == nil {
		return nil
	}
	return n.journal.Record(ctx, domain.SyncCycle{
		Loop:      payload.Loop,
		StartedAt: payload.StartedAt,
		Duration:  payload.Duration,
		Outcome:   string(payload.Outcome),
		Items:     payload.Items,
		Changes:   payload.Changes,
		Error:     payload.Error,
	})
}
