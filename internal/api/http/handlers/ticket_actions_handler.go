package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/dto"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/service"
	apperrors "github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// TicketActionsHandler exposes operator edits on tickets.
type TicketActionsHandler struct {
	service *service.TicketActionService
}

// NewTicketActionsHandler constructs handler.
func NewTicketActionsHandler(actions *service.TicketActionService) *TicketActionsHandler {
	return &TicketActionsHandler{service: actions}
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketActionsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return writeResult(c, h.service.UpdateStatus(c.UserContext(), domain.ID(c.Params("id")), req.Status))
}

// Delete DELETE /api/tickets/:id.
func (h *TicketActionsHandler) Delete(c *fiber.Ctx) error {
	return writeResult(c, h.service.DeleteTicket(c.UserContext(), domain.ID(c.Params("id"))))
}

// FilterByDate POST /api/tickets/date-filter.
func (h *TicketActionsHandler) FilterByDate(c *fiber.Ctx) error {
	var req dto.DateFilterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.FilterByDate(c.UserContext(), req.Date); err != nil {
		if apperrors.IsCode(err, "VALIDATION_FAILED") {
			return err
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": dto.WriteResponse{
			Applied: true,
			Warning: apperrors.ToDomainError(err).Message,
		}})
	}
	return c.JSON(fiber.Map{"data": dto.WriteResponse{Applied: true, Synced: true}})
}

// ResetDateFilter DELETE /api/tickets/date-filter.
func (h *TicketActionsHandler) ResetDateFilter(c *fiber.Ctx) error {
	if err := h.service.ResetDateFilter(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WriteResponse{Applied: true, Synced: true}})
}
