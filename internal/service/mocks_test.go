package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-sync/internal/backend"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// MockBackend implements every backend slice the services consume. Unset
// funcs succeed with zero values.
type MockBackend struct {
	mu    sync.Mutex
	calls []string

	TicketsFunc        func(ctx context.Context) (domain.Snapshot, error)
	SyncTicketsFunc    func(ctx context.Context) (domain.Snapshot, error)
	TicketsByDateFunc  func(ctx context.Context, date string) (domain.Snapshot, error)
	ClearTextboxesFunc func(ctx context.Context) (int, error)
	UpdateStatusFunc   func(ctx context.Context, id domain.ID, status domain.TicketStatus) error
	DeleteTicketFunc   func(ctx context.Context, id domain.ID) error
	EmailRankingsFunc  func(ctx context.Context) ([]domain.EmailRanking, error)

	NotificationsFunc            func(ctx context.Context) (domain.Notifications, error)
	MarkNotificationReadFunc     func(ctx context.Context, id domain.ID) error
	MarkAllNotificationsReadFunc func(ctx context.Context) error
	DeleteNotificationFunc       func(ctx context.Context, id domain.ID) error

	MessagesFunc         func(ctx context.Context, id domain.ID) ([]domain.ChatMessage, error)
	PostMessageFunc      func(ctx context.Context, msg backend.NewChatMessage) (backend.PostedMessage, error)
	DeleteMessagesFunc   func(ctx context.Context, id domain.ID) error
	MarkMessagesReadFunc func(ctx context.Context, id domain.ID, adminID string) error
	RefreshMessagesFunc  func(ctx context.Context, id domain.ID, adminID string) ([]domain.ChatMessage, error)
	SendAnnouncementFunc func(ctx context.Context, message string) (backend.AnnouncementResult, error)
	UpdateTextboxFunc    func(ctx context.Context, id domain.ID, text string) error
}

func (m *MockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the recorded call names in order.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBackend) Tickets(ctx context.Context) (domain.Snapshot, error) {
	m.record("Tickets")
	if m.TicketsFunc != nil {
		return m.TicketsFunc(ctx)
	}
	return domain.Snapshot{}, nil
}

func (m *MockBackend) SyncTickets(ctx context.Context) (domain.Snapshot, error) {
	m.record("SyncTickets")
	if m.SyncTicketsFunc != nil {
		return m.SyncTicketsFunc(ctx)
	}
	return domain.Snapshot{}, nil
}

func (m *MockBackend) TicketsByDate(ctx context.Context, date string) (domain.Snapshot, error) {
	m.record("TicketsByDate")
	if m.TicketsByDateFunc != nil {
		return m.TicketsByDateFunc(ctx, date)
	}
	return domain.Snapshot{}, nil
}

func (m *MockBackend) ClearTextboxes(ctx context.Context) (int, error) {
	m.record("ClearTextboxes")
	if m.ClearTextboxesFunc != nil {
		return m.ClearTextboxesFunc(ctx)
	}
	return 0, nil
}

func (m *MockBackend) UpdateStatus(ctx context.Context, id domain.ID, status domain.TicketStatus) error {
	m.record("UpdateStatus")
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockBackend) DeleteTicket(ctx context.Context, id domain.ID) error {
	m.record("DeleteTicket")
	if m.DeleteTicketFunc != nil {
		return m.DeleteTicketFunc(ctx, id)
	}
	return nil
}

func (m *MockBackend) EmailRankings(ctx context.Context) ([]domain.EmailRanking, error) {
	m.record("EmailRankings")
	if m.EmailRankingsFunc != nil {
		return m.EmailRankingsFunc(ctx)
	}
	return []domain.EmailRanking{}, nil
}

func (m *MockBackend) Notifications(ctx context.Context) (domain.Notifications, error) {
	m.record("Notifications")
	if m.NotificationsFunc != nil {
		return m.NotificationsFunc(ctx)
	}
	return domain.Notifications{}, nil
}

func (m *MockBackend) MarkNotificationRead(ctx context.Context, id domain.ID) error {
	m.record("MarkNotificationRead")
	if m.MarkNotificationReadFunc != nil {
		return m.MarkNotificationReadFunc(ctx, id)
	}
	return nil
}

func (m *MockBackend) MarkAllNotificationsRead(ctx context.Context) error {
	m.record("MarkAllNotificationsRead")
	if m.MarkAllNotificationsReadFunc != nil {
		return m.MarkAllNotificationsReadFunc(ctx)
	}
	return nil
}

func (m *MockBackend) DeleteNotification(ctx context.Context, id domain.ID) error {
	m.record("DeleteNotification")
	if m.DeleteNotificationFunc != nil {
		return m.DeleteNotificationFunc(ctx, id)
	}
	return nil
}

func (m *MockBackend) Messages(ctx context.Context, id domain.ID) ([]domain.ChatMessage, error) {
	m.record("Messages")
	if m.MessagesFunc != nil {
		return m.MessagesFunc(ctx, id)
	}
	return []domain.ChatMessage{}, nil
}

func (m *MockBackend) PostMessage(ctx context.Context, msg backend.NewChatMessage) (backend.PostedMessage, error) {
	m.record("PostMessage")
	if m.PostMessageFunc != nil {
		return m.PostMessageFunc(ctx, msg)
	}
	return backend.PostedMessage{}, nil
}

func (m *MockBackend) DeleteMessages(ctx context.Context, id domain.ID) error {
	m.record("DeleteMessages")
	if m.DeleteMessagesFunc != nil {
		return m.DeleteMessagesFunc(ctx, id)
	}
	return nil
}

func (m *MockBackend) MarkMessagesRead(ctx context.Context, id domain.ID, adminID string) error {
	m.record("MarkMessagesRead")
	if m.MarkMessagesReadFunc != nil {
		return m.MarkMessagesReadFunc(ctx, id, adminID)
	}
	return nil
}

func (m *MockBackend) RefreshMessages(ctx context.Context, id domain.ID, adminID string) ([]domain.ChatMessage, error) {
	m.record("RefreshMessages")
	if m.RefreshMessagesFunc != nil {
		return m.RefreshMessagesFunc(ctx, id, adminID)
	}
	return []domain.ChatMessage{}, nil
}

func (m *MockBackend) SendAnnouncement(ctx context.Context, message string) (backend.AnnouncementResult, error) {
	m.record("SendAnnouncement")
	if m.SendAnnouncementFunc != nil {
		return m.SendAnnouncementFunc(ctx, message)
	}
	return backend.AnnouncementResult{Success: true}, nil
}

func (m *MockBackend) UpdateTextbox(ctx context.Context, id domain.ID, text string) error {
	m.record("UpdateTextbox:" + text)
	if m.UpdateTextboxFunc != nil {
		return m.UpdateTextboxFunc(ctx, id, text)
	}
	return nil
}

// memoryOutbox is an in-process NotificationOutbox.
type memoryOutbox struct {
	mu      sync.Mutex
	entries []domain.PendingNotification
	addErr  error
}

func (o *memoryOutbox) Add(_ context.Context, pending domain.PendingNotification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.addErr != nil {
		return o.addErr
	}
	o.entries = append(o.entries, pending)
	return nil
}

func (o *memoryOutbox) Pending(context.Context) ([]domain.PendingNotification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.PendingNotification(nil), o.entries...), nil
}

func (o *memoryOutbox) Remove(_ context.Context, ids ...domain.ID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	drop := make(map[domain.ID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := o.entries[:0]
	for _, e := range o.entries {
		if !drop[e.Notification.ID] {
			kept = append(kept, e)
		}
	}
	o.entries = kept
	return nil
}

type memoryJournal struct {
	mu     sync.Mutex
	cycles []domain.SyncCycle
}

func (j *memoryJournal) Record(_ context.Context, cycle domain.SyncCycle) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cycles = append(j.cycles, cycle)
	return nil
}

type countingAlerter struct {
	mu    sync.Mutex
	calls []int
}

func (a *countingAlerter) Alert(_ context.Context, produced int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, produced)
	return nil
}

func (a *countingAlerter) Calls() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.calls...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
