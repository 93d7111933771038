package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/state"
	"github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// ReadStateService applies operator read and delete actions on
// notifications. Local state changes first; the backend call follows and a
// failure is reported without rolling the local change back.
type ReadStateService struct {
	backend NotificationBackend
	store   *state.Store
	outbox  NotificationOutbox
	logger  *zap.Logger
}

// NewReadStateService creates the service.
func NewReadStateService(backend NotificationBackend, store *state.Store, outbox NotificationOutbox, logger *zap.Logger) *ReadStateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadStateService{backend: backend, store: store, outbox: outbox, logger: logger.Named("read_state")}
}

// MarkRead marks one notification read. The unread indicator is recomputed
// from the list as it stood before the change, with the marked entry left
// out.
func (s *ReadStateService) MarkRead(ctx context.Context, id domain.ID) errorutil.Result {
	if id == "" {
		return errorutil.Failed(errorutil.NewValidationError("notification id is required", nil))
	}
	applied := s.store.Update(func(v *state.View) {
		othersUnread := false
		for _, n := range v.Notifications {
			if n.ID != id && !n.Read {
				othersUnread = true
			}
		}
		next := v.Notifications.Clone()
		for i := range next {
			if next[i].ID == id {
				next[i].Read = true
			}
		}
		v.Notifications = next
		v.HasUnread = othersUnread
	})
	if !applied {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	if err := s.backend.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Warn("mark notification read failed", zap.String("notification_id", id.String()), zap.Error(err))
		return errorutil.Unsynced(err)
	}
	return errorutil.SyncedResult()
}

// MarkAllRead marks every notification read and clears the indicator.
func (s *ReadStateService) MarkAllRead(ctx context.Context) errorutil.Result {
	applied := s.store.Update(func(v *state.View) {
		next := v.Notifications.Clone()
		for i := range next {
			next[i].Read = true
		}
		v.Notifications = next
		v.HasUnread = false
	})
	if !applied {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	if err := s.backend.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Warn("mark all notifications read failed", zap.Error(err))
		return errorutil.Unsynced(err)
	}
	return errorutil.SyncedResult()
}

// Delete removes a notification locally, from the outbox and on the backend.
func (s *ReadStateService) Delete(ctx context.Context, id domain.ID) errorutil.Result {
	if id == "" {
		return errorutil.Failed(errorutil.NewValidationError("notification id is required", nil))
	}
	applied := s.store.Update(func(v *state.View) {
		next := make(domain.Notifications, 0, len(v.Notifications))
		for _, n := range v.Notifications {
			if n.ID != id {
				next = append(next, n)
			}
		}
		v.Notifications = next
		v.HasUnread = next.AnyUnread()
		delete(v.Local, id)
	})
	if !applied {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	if s.outbox != nil {
		if err := s.outbox.Remove(ctx, id); err != nil {
			s.logger.Warn("outbox removal failed", zap.String("notification_id", id.String()), zap.Error(err))
		}
	}
	if err := s.backend.DeleteNotification(ctx, id); err != nil {
		s.logger.Warn("delete notification failed", zap.String("notification_id", id.String()), zap.Error(err))
		return errorutil.Unsynced(err)
	}
	return errorutil.SyncedResult()
}
