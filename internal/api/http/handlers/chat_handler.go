package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/dto"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/service"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

// ChatHandler serves the chat pane.
type ChatHandler struct {
	store   *state.Store
	service *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(store *state.Store, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{store: store, service: chat}
}

// Get GET /api/chat.
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.chatResponse()})
}

// Select PUT /api/chat/selection.
func (h *ChatHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.Select(c.UserContext(), req.TicketID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.chatResponse()})
}

// SetDraft PUT /api/chat/draft.
func (h *ChatHandler) SetDraft(c *fiber.Ctx) error {
	var req dto.DraftRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	h.service.SetDraft(req.Text)
	return c.JSON(fiber.Map{"data": h.chatResponse()})
}

// Send POST /api/chat/messages.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return writeResult(c, h.service.Send(c.UserContext(), req.Message))
}

// Clear DELETE /api/chat/messages.
func (h *ChatHandler) Clear(c *fiber.Ctx) error {
	return writeResult(c, h.service.Clear(c.UserContext()))
}

// Refresh POST /api/chat/refresh.
func (h *ChatHandler) Refresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.chatResponse()})
}

func (h *ChatHandler) chatResponse() dto.ChatResponse {
	view := h.store.View()
	messages := view.Messages
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return dto.ChatResponse{Selected: view.Selected, Draft: view.Draft, Messages: messages}
}
