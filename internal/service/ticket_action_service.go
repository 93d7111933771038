package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/state"
	"github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// DateLayout is the calendar date format accepted by the date filter.
const DateLayout = "2006-01-02"

// TicketActionService applies operator edits to tickets and the date filter.
type TicketActionService struct {
	backend  TicketBackend
	store    *state.Store
	rankings *RankingService
	logger   *zap.Logger
}

// NewTicketActionService creates the service.
func NewTicketActionService(backend TicketBackend, store *state.Store, rankings *RankingService, logger *zap.Logger) *TicketActionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketActionService{backend: backend, store: store, rankings: rankings, logger: logger.Named("ticket_actions")}
}

// UpdateStatus changes a ticket's status on the backend and patches the
// local snapshot once the backend accepts.
func (s *TicketActionService) UpdateStatus(ctx context.Context, id domain.ID, status domain.TicketStatus) errorutil.Result {
	if id == "" {
		return errorutil.Failed(errorutil.NewValidationError("ticket id is required", nil))
	}
	if !status.Valid() {
		return errorutil.Failed(errorutil.NewValidationError("unknown ticket status", map[string]any{"status": string(status)}))
	}
	if _, ok := s.store.View().Tickets.Find(id); !ok {
		return errorutil.Failed(errorutil.NewNotFound("ticket", map[string]any{"ticket_id": id.String()}))
	}
	if err := s.backend.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Warn("status update failed", zap.String("ticket_id", id.String()), zap.Error(err))
		return errorutil.Failed(err)
	}
	if !s.store.Update(func(v *state.View) {
		v.Tickets = v.Tickets.WithStatus(id, status)
	}) {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	_ = s.rankings.Refresh(ctx)
	return errorutil.SyncedResult()
}

// DeleteTicket removes a ticket on the backend and, once that succeeds,
// from the local snapshot.
func (s *TicketActionService) DeleteTicket(ctx context.Context, id domain.ID) errorutil.Result {
	if id == "" {
		return errorutil.Failed(errorutil.NewValidationError("ticket id is required", nil))
	}
	if err := s.backend.DeleteTicket(ctx, id); err != nil {
		s.logger.Warn("ticket delete failed", zap.String("ticket_id", id.String()), zap.Error(err))
		return errorutil.Failed(err)
	}
	applied := s.store.Update(func(v *state.View) {
		v.Tickets = v.Tickets.Without(id)
		if v.Selected == id {
			v.Selected = ""
			v.Draft = ""
			v.Messages = nil
		}
	})
	if !applied {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	_ = s.rankings.Refresh(ctx)
	return errorutil.SyncedResult()
}

// FilterByDate replaces the snapshot with the tickets reported on date. A
// failed fetch leaves the filter active over an empty list. The filter holds
// until the next ticket sync.
func (s *TicketActionService) FilterByDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errorutil.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": date})
	}
	tickets, err := s.backend.TicketsByDate(ctx, date)
	if err != nil {
		s.logger.Warn("date filter fetch failed", zap.String("date", date), zap.Error(err))
	}
	if tickets == nil {
		tickets = domain.Snapshot{}
	}
	if !s.store.Update(func(v *state.View) {
		v.Tickets = tickets
		v.Loaded = true
		v.DateFilter = date
	}) {
		return errorutil.NewUnavailable("dashboard is shutting down")
	}
	_ = s.rankings.Refresh(ctx)
	return err
}

// ResetDateFilter reloads the full ticket list.
func (s *TicketActionService) ResetDateFilter(ctx context.Context) error {
	tickets, err := s.backend.Tickets(ctx)
	if err != nil {
		s.logger.Warn("date filter reset failed", zap.Error(err))
		return err
	}
	if tickets == nil {
		tickets = domain.Snapshot{}
	}
	if !s.store.Update(func(v *state.View) {
		v.Tickets = tickets
		v.Loaded = true
		v.DateFilter = ""
	}) {
		return errorutil.NewUnavailable("dashboard is shutting down")
	}
	_ = s.rankings.Refresh(ctx)
	return nil
}
