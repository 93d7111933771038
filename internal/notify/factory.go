// Package notify turns detected changes and operator actions into
// notification records and raises the audible alert for new ones.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
)

// ActionKind enumerates operator actions that produce a notification.
type ActionKind string

const (
	ActionAnnouncement ActionKind = "announcement"
)

// Factory creates notifications. Identifiers are UUIDv7 values: a millisecond
// clock prefix plus random bits, re-drawn on the rare collision with an
// identifier already in the local list.
type Factory struct {
	now     func() time.Time
	newID   func() (string, error)
	alerter Alerter
	logger  *zap.Logger
}

// Option customises a Factory.
type Option func(*Factory)

// WithClock overrides the factory clock.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDSource overrides identifier generation.
func WithIDSource(newID func() (string, error)) Option {
	return func(f *Factory) { f.newID = newID }
}

// WithAlerter sets the alert sink used by Alert.
func WithAlerter(alerter Alerter) Option {
	return func(f *Factory) { f.alerter = alerter }
}

// NewFactory creates a factory.
func NewFactory(logger *zap.Logger, opts ...Option) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Factory{
		now:     time.Now,
		newID:   newUUIDv7,
		alerter: NopAlerter{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FromChangeEvent builds the notification for one detected change.
func (f *Factory) FromChangeEvent(event events.ChangeEvent, existing domain.Notifications) domain.Notification {
	return f.build(messageFor(event), existing)
}

// FromChangeEvents builds one notification per change, in change order.
// Identifiers are unique across existing and the batch itself.
func (f *Factory) FromChangeEvents(changes []events.ChangeEvent, existing domain.Notifications) domain.Notifications {
	if len(changes) == 0 {
		return nil
	}
	taken := existing.Clone()
	out := make(domain.Notifications, 0, len(changes))
	for _, change := range changes {
		n := f.build(messageFor(change), taken)
		taken = append(taken, n)
		out = append(out, n)
	}
	return out
}

// FromAction builds the notification confirming an operator action.
func (f *Factory) FromAction(kind ActionKind, text string, existing domain.Notifications) domain.Notification {
	var message string
	switch kind {
	case ActionAnnouncement:
		message = fmt.Sprintf("Announcement: %s", text)
	default:
		message = text
	}
	return f.build(message, existing)
}

// Alert raises the audible alert once for a batch of produced notifications.
// Failures are logged and swallowed.
func (f *Factory) Alert(ctx context.Context, produced int) {
	if produced == 0 {
		return
	}
	if err := f.alerter.Alert(ctx, produced); err != nil {
		f.logger.Debug("alert failed", zap.Int("produced", produced), zap.Error(err))
	}
}

func (f *Factory) build(message string, existing domain.Notifications) domain.Notification {
	return domain.Notification{
		ID:        f.uniqueID(existing),
		Message:   message,
		Timestamp: f.now().UTC().Format(domain.TimestampLayout),
		Read:      false,
	}
}

func (f *Factory) uniqueID(existing domain.Notifications) domain.ID {
	for attempt := 0; ; attempt++ {
		raw, err := f.newID()
		if err != nil || raw == "" {
			// fall back to a clock-derived identifier
			raw = fmt.Sprintf("%d-%d", f.now().UnixNano(), attempt)
		}
		id := domain.ID(raw)
		if !existing.Contains(id) {
			return id
		}
	}
}

func messageFor(event events.ChangeEvent) string {
	switch event.Type {
	case events.EventTextboxChanged:
		return fmt.Sprintf("New message for ticket %s: %s", event.TicketID, event.NewText)
	default:
		return fmt.Sprintf("Ticket %s changed", event.TicketID)
	}
}
