package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/delta"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/notify"
	"github.com/spec-kit/helpdesk-sync/internal/observability"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

// TicketSyncService runs the ticket poll: fetch a fresh snapshot, diff it
// against the current one, turn differences into notifications and swap the
// snapshot in.
type TicketSyncService struct {
	backend  TicketBackend
	store    *state.Store
	factory  *notify.Factory
	rankings *RankingService
	recorder cycleRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// TicketSyncDependencies bundles collaborators for TicketSyncService.
type TicketSyncDependencies struct {
	Backend    TicketBackend
	Store      *state.Store
	Factory    *notify.Factory
	Rankings   *RankingService
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewTicketSyncService creates the service.
func NewTicketSyncService(deps TicketSyncDependencies) *TicketSyncService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	factory := deps.Factory
	if factory == nil {
		factory = notify.NewFactory(logger)
	}
	logger = logger.Named("ticket_sync")
	return &TicketSyncService{
		backend:  deps.Backend,
		store:    deps.Store,
		factory:  factory,
		rankings: deps.Rankings,
		recorder: cycleRecorder{dispatcher: deps.Dispatcher, metrics: deps.Metrics, logger: logger},
		logger:   logger,
		now:      now,
	}
}

// Load performs the initial fetch of the full ticket list. A failure leaves
// the dashboard loaded with an empty list.
func (s *TicketSyncService) Load(ctx context.Context) error {
	tickets, err := s.backend.Tickets(ctx)
	if err != nil {
		s.logger.Error("initial ticket load failed", zap.Error(err))
		tickets = domain.Snapshot{}
	}
	if !s.store.Update(func(v *state.View) {
		v.Tickets = tickets
		v.Loaded = true
	}) {
		return err
	}
	_ = s.rankings.Refresh(ctx)
	return err
}

// Cycle runs one reconciliation. The snapshot swap, delta detection and
// notification insertion happen in a single state update so a concurrent
// completion can never interleave with them.
func (s *TicketSyncService) Cycle(ctx context.Context) CycleReport {
	started := s.now()
	report := CycleReport{Loop: TicketLoop, StartedAt: started}

	next, err := s.backend.SyncTickets(ctx)
	if err != nil {
		report.Err = err
		report.Outcome = events.CycleFailed
		applied := s.store.Update(func(v *state.View) {
			if !v.Loaded {
				v.Tickets = domain.Snapshot{}
				v.Loaded = true
			}
		})
		if !applied {
			report.Outcome = events.CycleDiscarded
		}
		report.Duration = s.now().Sub(started)
		return s.recorder.finish(ctx, report)
	}
	if next == nil {
		next = domain.Snapshot{}
	}

	var produced domain.Notifications
	applied := s.store.Update(func(v *state.View) {
		changes := delta.Detect(v.Tickets, next)
		produced = s.factory.FromChangeEvents(changes, v.Notifications)
		report.Changes = len(changes)

		v.Tickets = next
		v.Loaded = true
		v.LastSync = started
		v.DateFilter = ""
		v.PrependLocal(produced, started)
	})
	report.Items = len(next)
	if !applied {
		report.Outcome = events.CycleDiscarded
		report.Duration = s.now().Sub(started)
		return s.recorder.finish(ctx, report)
	}

	if len(produced) > 0 {
		s.factory.Alert(ctx, len(produced))
		publishProduced(ctx, s.recorder.dispatcher, TicketLoop, produced, started)
	}

	if cleared, err := s.backend.ClearTextboxes(ctx); err != nil {
		s.logger.Warn("clearing textboxes failed", zap.Error(err))
	} else if cleared > 0 {
		s.logger.Debug("textboxes cleared", zap.Int("count", cleared))
	}
	_ = s.rankings.Refresh(ctx)

	report.Outcome = events.CycleSucceeded
	report.Duration = s.now().Sub(started)
	return s.recorder.finish(ctx, report)
}
