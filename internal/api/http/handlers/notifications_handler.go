package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/dto"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/service"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

// NotificationsHandler serves the notification panel.
type NotificationsHandler struct {
	store   *state.Store
	service *service.ReadStateService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(store *state.Store, readState *service.ReadStateService) *NotificationsHandler {
	return &NotificationsHandler{store: store, service: readState}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	view := h.store.View()
	notifications := view.Notifications
	if notifications == nil {
		notifications = domain.Notifications{}
	}
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Notifications: notifications,
		HasUnread:     view.HasUnread,
		UnreadCount:   notifications.UnreadCount(),
	}})
}

// MarkRead POST /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	return writeResult(c, h.service.MarkRead(c.UserContext(), domain.ID(c.Params("id"))))
}

// MarkAllRead POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	return writeResult(c, h.service.MarkAllRead(c.UserContext()))
}

// Delete DELETE /api/notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	return writeResult(c, h.service.Delete(c.UserContext(), domain.ID(c.Params("id"))))
}
