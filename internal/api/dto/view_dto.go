package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// TicketRow is one dashboard row with its derived urgency.
type TicketRow struct {
	ID          domain.ID           `json:"ticket_id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Phone       domain.ID           `json:"phone"`
	Department  string              `json:"department"`
	CreatedAt   string              `json:"created_at"`
	Status      domain.TicketStatus `json:"status"`
	Appointment string              `json:"appointment"`
	Request     string              `json:"request"`
	Report      string              `json:"report"`
	Type        string              `json:"type"`
	Textbox     string              `json:"textbox"`
	Tier        domain.Tier         `json:"tier"`
	Color       string              `json:"color"`
}

// TicketListResponse is the filtered ticket table.
type TicketListResponse struct {
	Tickets    []TicketRow `json:"tickets"`
	Total      int         `json:"total"`
	DateFilter string      `json:"date_filter,omitempty"`
}

// ViewResponse summarises the dashboard state.
type ViewResponse struct {
	Loaded       bool                  `json:"loaded"`
	LastSync     *time.Time            `json:"last_sync"`
	DateFilter   string                `json:"date_filter"`
	TicketCount  int                   `json:"ticket_count"`
	StatusCounts map[string]int        `json:"status_counts"`
	Statuses     []domain.TicketStatus `json:"statuses"`
	Types        []string              `json:"types"`
	HasUnread    bool                  `json:"has_unread"`
	UnreadCount  int                   `json:"unread_count"`
	Selected     domain.ID             `json:"selected"`
	Draft        string                `json:"draft"`
}

// NotificationListResponse is the notification panel.
type NotificationListResponse struct {
	Notifications domain.Notifications `json:"notifications"`
	HasUnread     bool                 `json:"has_unread"`
	UnreadCount   int                  `json:"unread_count"`
}

// ChatResponse is the chat pane.
type ChatResponse struct {
	Selected domain.ID            `json:"selected"`
	Draft    string               `json:"draft"`
	Messages []domain.ChatMessage `json:"messages"`
}

// SyncCycleResponse is one journal row.
type SyncCycleResponse struct {
	ID         int64     `json:"id"`
	Loop       string    `json:"loop"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Outcome    string    `json:"outcome"`
	Items      int       `json:"items"`
	Changes    int       `json:"changes"`
	Error      string    `json:"error,omitempty"`
}

// WriteResponse reports how far an operator write got.
type WriteResponse struct {
	Applied bool   `json:"applied"`
	Synced  bool   `json:"synced"`
	Warning string `json:"warning,omitempty"`
}
