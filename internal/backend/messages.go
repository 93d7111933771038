package backend

import (
	"context"
	"net/url"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// NewChatMessage is the payload appended to a ticket thread.
type NewChatMessage struct {
	TicketID       domain.ID `json:"ticket_id"`
	AdminID        string    `json:"admin_id"`
	SenderName     string    `json:"sender_name"`
	Message        string    `json:"message"`
	IsAdminMessage bool      `json:"is_admin_message"`
}

// PostedMessage is the backend's acknowledgement of an appended message.
type PostedMessage struct {
	ID        domain.ID `json:"id"`
	Timestamp string    `json:"timestamp"`
}

// AnnouncementResult is the outcome of a broadcast.
type AnnouncementResult struct {
	Success        bool `json:"success"`
	RecipientCount int  `json:"recipient_count"`
}

type threadRef struct {
	TicketID domain.ID `json:"ticket_id"`
	AdminID  string    `json:"admin_id,omitempty"`
}

type refreshResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type announcement struct {
	Message string `json:"message"`
}

// Messages loads a ticket's chat thread.
func (c *Client) Messages(ctx context.Context, ticketID domain.ID) ([]domain.ChatMessage, error) {
	body, err := c.get(ctx, "/api/messages", url.Values{"ticket_id": {ticketID.String()}})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.ChatMessage](body)
}

// PostMessage appends a message to a ticket thread.
func (c *Client) PostMessage(ctx context.Context, msg NewChatMessage) (PostedMessage, error) {
	body, err := c.post(ctx, "/api/messages", msg)
	if err != nil {
		return PostedMessage{}, err
	}
	var posted PostedMessage
	if err := decodeObject(body, &posted); err != nil {
		return PostedMessage{}, err
	}
	return posted, nil
}

// DeleteMessages clears a ticket thread.
func (c *Client) DeleteMessages(ctx context.Context, ticketID domain.ID) error {
	_, err := c.post(ctx, "/api/messages/delete", threadRef{TicketID: ticketID})
	return err
}

// MarkMessagesRead marks a thread read for the admin.
func (c *Client) MarkMessagesRead(ctx context.Context, ticketID domain.ID, adminID string) error {
	_, err := c.post(ctx, "/api/messages/mark-read", threadRef{TicketID: ticketID, AdminID: adminID})
	return err
}

// RefreshMessages forces the backend to reload a thread and returns it.
func (c *Client) RefreshMessages(ctx context.Context, ticketID domain.ID, adminID string) ([]domain.ChatMessage, error) {
	body, err := c.post(ctx, "/refresh-messages", threadRef{TicketID: ticketID, AdminID: adminID})
	if err != nil {
		return nil, err
	}
	var resp refreshResponse
	if err := decodeObject(body, &resp); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		resp.Messages = []domain.ChatMessage{}
	}
	return resp.Messages, nil
}

// SendAnnouncement broadcasts a message to every ticket owner.
func (c *Client) SendAnnouncement(ctx context.Context, message string) (AnnouncementResult, error) {
	body, err := c.post(ctx, "/send-announcement", announcement{Message: message})
	if err != nil {
		return AnnouncementResult{}, err
	}
	var result AnnouncementResult
	if err := decodeObject(body, &result); err != nil {
		return AnnouncementResult{}, err
	}
	return result, nil
}
