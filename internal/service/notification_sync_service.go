package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/observability"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

// NotificationSyncService polls the backend notification list and makes it
// the local list, keeping locally created entries the backend has not echoed
// yet. Which entries are local is read from the view under the store lock;
// the outbox only persists them across restarts.
type NotificationSyncService struct {
	backend   NotificationBackend
	store     *state.Store
	outbox    NotificationOutbox
	retention time.Duration
	recorder  cycleRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NotificationSyncDependencies bundles collaborators for NotificationSyncService.
type NotificationSyncDependencies struct {
	Backend    NotificationBackend
	Store      *state.Store
	Outbox     NotificationOutbox
	Retention  time.Duration
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewNotificationSyncService creates the service. Without an outbox the
// backend list replaces the local one outright.
func NewNotificationSyncService(deps NotificationSyncDependencies) *NotificationSyncService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger = logger.Named("notification_sync")
	return &NotificationSyncService{
		backend:   deps.Backend,
		store:     deps.Store,
		outbox:    deps.Outbox,
		retention: deps.Retention,
		recorder:  cycleRecorder{dispatcher: deps.Dispatcher, metrics: deps.Metrics, logger: logger},
		logger:    logger,
		now:       now,
	}
}

// Cycle runs one poll. On failure the local list is left untouched.
func (s *NotificationSyncService) Cycle(ctx context.Context) CycleReport {
	started := s.now()
	report := CycleReport{Loop: NotificationLoop, StartedAt: started}

	remote, err := s.backend.Notifications(ctx)
	if err != nil {
		report.Err = err
		report.Outcome = events.CycleFailed
		report.Duration = s.now().Sub(started)
		return s.recorder.finish(ctx, report)
	}
	if remote == nil {
		remote = domain.Notifications{}
	}

	var settled []domain.ID
	applied := s.store.Update(func(v *state.View) {
		var carried domain.Notifications
		carried, settled = splitPending(remote, v.PendingLocal(), started, s.retention)
		merged := make(domain.Notifications, 0, len(remote)+len(carried))
		merged = append(merged, carried...)
		merged = append(merged, remote...)
		v.Notifications = merged
		v.HasUnread = merged.AnyUnread()
		v.RetainLocal(carried)
		report.Changes = len(carried)
	})
	report.Items = len(remote)
	if !applied {
		report.Outcome = events.CycleDiscarded
		report.Duration = s.now().Sub(started)
		return s.recorder.finish(ctx, report)
	}

	if len(settled) > 0 && s.outbox != nil {
		if err := s.outbox.Remove(ctx, settled...); err != nil {
			s.logger.Warn("outbox cleanup failed", zap.Error(err))
		}
	}

	report.Outcome = events.CycleSucceeded
	report.Duration = s.now().Sub(started)
	return s.recorder.finish(ctx, report)
}

// Restore puts outbox entries left by an earlier run back into the local
// list so the next poll carries them. It returns how many were restored.
func (s *NotificationSyncService) Restore(ctx context.Context) int {
	if s.outbox == nil {
		return 0
	}
	pending, err := s.outbox.Pending(ctx)
	if err != nil {
		s.logger.Warn("outbox read failed", zap.Error(err))
		return 0
	}
	restored := 0
	s.store.Update(func(v *state.View) {
		for _, p := range pending {
			if _, ok := find(v.Notifications, p.Notification.ID); ok {
				continue
			}
			v.PrependLocal(domain.Notifications{p.Notification}, p.QueuedAt)
			restored++
		}
		v.HasUnread = v.Notifications.AnyUnread()
	})
	if restored > 0 {
		s.logger.Info("outbox restored", zap.Int("count", restored))
	}
	return restored
}

// splitPending returns the pending notifications still to be shown ahead of
// the backend list, newest first, and the ids that can leave the outbox
// because the backend echoed them or they outlived the retention window.
func splitPending(remote domain.Notifications, pending []domain.PendingNotification, now time.Time, retention time.Duration) (domain.Notifications, []domain.ID) {
	var carried domain.Notifications
	var settled []domain.ID
	for _, p := range pending {
		switch {
		case echoed(remote, p.Notification):
			settled = append(settled, p.Notification.ID)
		case retention > 0 && now.Sub(p.QueuedAt) > retention:
			settled = append(settled, p.Notification.ID)
		default:
			carried = append(carried, p.Notification)
		}
	}
	sortNewestFirst(carried, pending)
	return carried, settled
}

func echoed(remote domain.Notifications, n domain.Notification) bool {
	for _, r := range remote {
		if r.ID == n.ID {
			return true
		}
		if r.Message == n.Message && r.Timestamp == n.Timestamp {
			return true
		}
	}
	return false
}

func sortNewestFirst(carried domain.Notifications, pending []domain.PendingNotification) {
	queued := make(map[domain.ID]time.Time, len(pending))
	for _, p := range pending {
		queued[p.Notification.ID] = p.QueuedAt
	}
	sort.SliceStable(carried, func(i, j int) bool {
		return queued[carried[i].ID].After(queued[carried[j].ID])
	})
}

func find(list domain.Notifications, id domain.ID) (domain.Notification, bool) {
	for _, n := range list {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}
