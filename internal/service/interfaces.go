package service

import (
	"context"

	"github.com/spec-kit/helpdesk-sync/internal/backend"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// TicketBackend is the slice of the backend the ticket services use.
type TicketBackend interface {
	Tickets(ctx context.Context) (domain.Snapshot, error)
	SyncTickets(ctx context.Context) (domain.Snapshot, error)
	TicketsByDate(ctx context.Context, date string) (domain.Snapshot, error)
	ClearTextboxes(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, ticketID domain.ID, status domain.TicketStatus) error
	DeleteTicket(ctx context.Context, ticketID domain.ID) error
}

// RankingBackend fetches the email leaderboard.
type RankingBackend interface {
	EmailRankings(ctx context.Context) ([]domain.EmailRanking, error)
}

// NotificationBackend is the slice of the backend the notification services use.
type NotificationBackend interface {
	Notifications(ctx context.Context) (domain.Notifications, error)
	MarkNotificationRead(ctx context.Context, id domain.ID) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id domain.ID) error
}

// ChatBackend is the slice of the backend the chat service uses.
type ChatBackend interface {
	Messages(ctx context.Context, ticketID domain.ID) ([]domain.ChatMessage, error)
	PostMessage(ctx context.Context, msg backend.NewChatMessage) (backend.PostedMessage, error)
	DeleteMessages(ctx context.Context, ticketID domain.ID) error
	MarkMessagesRead(ctx context.Context, ticketID domain.ID, adminID string) error
	RefreshMessages(ctx context.Context, ticketID domain.ID, adminID string) ([]domain.ChatMessage, error)
	SendAnnouncement(ctx context.Context, message string) (backend.AnnouncementResult, error)
	UpdateTextbox(ctx context.Context, ticketID domain.ID, text string) error
}

// NotificationOutbox remembers locally created notifications until the
// backend echoes them.
type NotificationOutbox interface {
	Add(ctx context.Context, pending domain.PendingNotification) error
	Pending(ctx context.Context) ([]domain.PendingNotification, error)
	Remove(ctx context.Context, ids ...domain.ID) error
}

// SyncJournal records finished sync cycles.
type SyncJournal interface {
	Record(ctx context.Context, cycle domain.SyncCycle) error
}
