package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/dto"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/escalation"
	"github.com/spec-kit/helpdesk-sync/internal/repository"
	"github.com/spec-kit/helpdesk-sync/internal/state"
	apperrors "github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// SyncTrigger runs a named sync loop on demand.
type SyncTrigger interface {
	RunNow(name string) bool
}

// DashboardHandler serves read-only views of the dashboard state.
type DashboardHandler struct {
	store      *state.Store
	classifier *escalation.Classifier
	trigger    SyncTrigger
	journal    repository.SyncJournalRepository
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(store *state.Store, classifier *escalation.Classifier, trigger SyncTrigger, journal repository.SyncJournalRepository) *DashboardHandler {
	if classifier == nil {
		classifier = escalation.NewClassifier(nil)
	}
	return &DashboardHandler{store: store, classifier: classifier, trigger: trigger, journal: journal}
}

// View GET /api/view.
func (h *DashboardHandler) View(c *fiber.Ctx) error {
	view := h.store.View()
	counts := make(map[string]int, len(domain.TicketStatuses))
	for status, n := range view.Tickets.StatusCounts() {
		counts[string(status)] = n
	}
	types := view.Tickets.Types()
	if types == nil {
		types = []string{}
	}
	resp := dto.ViewResponse{
		Loaded:       view.Loaded,
		DateFilter:   view.DateFilter,
		TicketCount:  len(view.Tickets),
		StatusCounts: counts,
		Statuses:     domain.TicketStatuses,
		Types:        types,
		HasUnread:    view.HasUnread,
		UnreadCount:  view.Notifications.UnreadCount(),
		Selected:     view.Selected,
		Draft:        view.Draft,
	}
	if !view.LastSync.IsZero() {
		lastSync := view.LastSync
		resp.LastSync = &lastSync
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Tickets GET /api/tickets.
func (h *DashboardHandler) Tickets(c *fiber.Ctx) error {
	view := h.store.View()
	status := domain.TicketStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return apperrors.NewValidationError("unknown ticket status", map[string]any{"status": string(status)})
	}
	filtered := view.Tickets.Filter(domain.TicketFilter{
		Search: c.Query("search"),
		Status: status,
		Type:   c.Query("type"),
	})
	rows := make([]dto.TicketRow, 0, len(filtered))
	for _, ticket := range filtered {
		rows = append(rows, h.ticketRow(ticket))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets:    rows,
		Total:      len(view.Tickets),
		DateFilter: view.DateFilter,
	}})
}

// Rankings GET /api/rankings.
func (h *DashboardHandler) Rankings(c *fiber.Ctx) error {
	rankings := h.store.View().Rankings
	if rankings == nil {
		rankings = []domain.EmailRanking{}
	}
	return c.JSON(fiber.Map{"data": rankings})
}

// TriggerSync POST /api/sync/:loop.
func (h *DashboardHandler) TriggerSync(c *fiber.Ctx) error {
	loop := c.Params("loop")
	if h.trigger == nil || !h.trigger.RunNow(loop) {
		return apperrors.NewNotFound("sync loop", map[string]any{"loop": loop})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"loop": loop, "triggered": true}})
}

// History GET /api/sync/history.
func (h *DashboardHandler) History(c *fiber.Ctx) error {
	if h.journal == nil {
		return c.JSON(fiber.Map{"data": []dto.SyncCycleResponse{}})
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.NewValidationError("limit must be a non-negative integer", nil)
		}
		limit = parsed
	}
	cycles, err := h.journal.Recent(c.UserContext(), c.Query("loop"), limit)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	items := make([]dto.SyncCycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		items = append(items, dto.SyncCycleResponse{
			ID:         cycle.ID,
			Loop:       cycle.Loop,
			StartedAt:  cycle.StartedAt,
			DurationMS: cycle.Duration.Milliseconds(),
			Outcome:    cycle.Outcome,
			Items:      cycle.Items,
			Changes:    cycle.Changes,
			Error:      cycle.Error,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *DashboardHandler) ticketRow(ticket domain.Ticket) dto.TicketRow {
	tier := h.classifier.Ticket(ticket)
	return dto.TicketRow{
		ID:          ticket.ID,
		Email:       ticket.Email,
		Name:        ticket.Name,
		Phone:       ticket.Phone,
		Department:  ticket.Department,
		CreatedAt:   ticket.CreatedAt,
		Status:      ticket.Status,
		Appointment: ticket.Appointment,
		Request:     ticket.Request,
		Report:      ticket.Report,
		Type:        ticket.TypeOrNone(),
		Textbox:     ticket.Textbox,
		Tier:        tier,
		Color:       tier.Color(),
	}
}
