package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/backend"
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/notify"
	"github.com/spec-kit/helpdesk-sync/internal/state"
	"github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// AdminSenderName is the display name stamped on operator messages.
const AdminSenderName = "Admin"

// ChatService drives the per-ticket chat thread and the announcement
// broadcast.
type ChatService struct {
	backend    ChatBackend
	store      *state.Store
	factory    *notify.Factory
	dispatcher events.Dispatcher
	adminID    string
	logger     *zap.Logger
	now        func() time.Time
}

// ChatDependencies bundles collaborators for ChatService.
type ChatDependencies struct {
	Backend    ChatBackend
	Store      *state.Store
	Factory    *notify.Factory
	Dispatcher events.Dispatcher
	AdminID    string
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewChatService creates the service.
func NewChatService(deps ChatDependencies) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := deps.Factory
	if factory == nil {
		factory = notify.NewFactory(logger)
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		backend:    deps.Backend,
		store:      deps.Store,
		factory:    factory,
		dispatcher: deps.Dispatcher,
		adminID:    deps.AdminID,
		logger:     logger.Named("chat"),
		now:        now,
	}
}

// Select points the chat at a ticket (or the announcement target) and loads
// its thread. A thread that arrives after the selection moved on is dropped.
func (s *ChatService) Select(ctx context.Context, id domain.ID) error {
	if !s.store.Update(func(v *state.View) {
		v.Selected = id
		v.Messages = nil
		v.Draft = ""
		if ticket, ok := v.Tickets.Find(id); ok {
			v.Draft = ticket.Textbox
		}
	}) {
		return errorutil.NewUnavailable("dashboard is shutting down")
	}
	if id == "" || id == domain.AnnouncementTarget {
		return nil
	}

	messages, err := s.backend.Messages(ctx, id)
	if err != nil {
		s.logger.Warn("loading messages failed", zap.String("ticket_id", id.String()), zap.Error(err))
		return err
	}
	s.setMessages(id, messages)

	if len(messages) > 0 {
		if err := s.backend.MarkMessagesRead(ctx, id, s.adminID); err != nil {
			s.logger.Warn("marking messages read failed", zap.String("ticket_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// SetDraft stores the composer text.
func (s *ChatService) SetDraft(text string) {
	s.store.Update(func(v *state.View) {
		v.Draft = text
	})
}

// Send posts text to the selected thread, or broadcasts it when the
// announcement target is selected.
func (s *ChatService) Send(ctx context.Context, text string) errorutil.Result {
	selected := s.store.View().Selected
	if selected == "" {
		return errorutil.Failed(errorutil.NewValidationError("no ticket selected", nil))
	}
	if strings.TrimSpace(text) == "" {
		return errorutil.Failed(errorutil.NewValidationError("message is empty", nil))
	}
	if selected == domain.AnnouncementTarget {
		return s.announce(ctx, text)
	}

	if err := s.backend.UpdateTextbox(ctx, selected, text); err != nil {
		s.logger.Warn("staging textbox failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return errorutil.Failed(err)
	}
	posted, err := s.backend.PostMessage(ctx, backend.NewChatMessage{
		TicketID:       selected,
		AdminID:        s.adminID,
		SenderName:     AdminSenderName,
		Message:        text,
		IsAdminMessage: true,
	})
	if err != nil {
		s.logger.Warn("posting message failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return errorutil.Failed(err)
	}

	message := domain.ChatMessage{
		ID:             posted.ID,
		TicketID:       selected,
		AdminID:        s.adminID,
		SenderName:     AdminSenderName,
		Message:        text,
		Timestamp:      posted.Timestamp,
		IsRead:         true,
		IsAdminMessage: true,
	}
	if !s.store.Update(func(v *state.View) {
		v.Draft = ""
		if v.Selected == selected {
			v.Messages = append(v.Messages, message)
		}
	}) {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}

	if err := s.backend.UpdateTextbox(ctx, selected, ""); err != nil {
		s.logger.Warn("clearing textbox failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return errorutil.Unsynced(err)
	}
	return errorutil.SyncedResult()
}

func (s *ChatService) announce(ctx context.Context, text string) errorutil.Result {
	result, err := s.backend.SendAnnouncement(ctx, text)
	if err != nil {
		s.logger.Warn("announcement failed", zap.Error(err))
		return errorutil.Failed(err)
	}
	if !result.Success {
		return errorutil.Failed(errorutil.NewBackendRejected("send-announcement", 200, "success=false"))
	}

	sentAt := s.now()
	var produced domain.Notification
	if !s.store.Update(func(v *state.View) {
		produced = s.factory.FromAction(notify.ActionAnnouncement, text, v.Notifications)
		v.PrependLocal(domain.Notifications{produced}, sentAt)
		v.Draft = ""
	}) {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	s.logger.Info("announcement sent", zap.Int("recipients", result.RecipientCount))
	publishProduced(ctx, s.dispatcher, string(notify.ActionAnnouncement), domain.Notifications{produced}, sentAt)
	return errorutil.SyncedResult()
}

// Clear deletes the selected thread and its staged textbox.
func (s *ChatService) Clear(ctx context.Context) errorutil.Result {
	selected := s.store.View().Selected
	if selected == "" || selected == domain.AnnouncementTarget {
		return errorutil.Failed(errorutil.NewValidationError("no ticket selected", nil))
	}
	if err := s.backend.DeleteMessages(ctx, selected); err != nil {
		s.logger.Warn("clearing messages failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return errorutil.Failed(err)
	}
	if !s.store.Update(func(v *state.View) {
		if v.Selected == selected {
			v.Messages = []domain.ChatMessage{}
			v.Draft = ""
		}
	}) {
		return errorutil.Failed(errorutil.NewUnavailable("dashboard is shutting down"))
	}
	if err := s.backend.UpdateTextbox(ctx, selected, ""); err != nil {
		s.logger.Warn("clearing textbox failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return errorutil.Unsynced(err)
	}
	return errorutil.SyncedResult()
}

// Refresh reloads the selected thread through the backend's refresh call.
func (s *ChatService) Refresh(ctx context.Context) error {
	selected := s.store.View().Selected
	if selected == "" || selected == domain.AnnouncementTarget {
		return nil
	}
	messages, err := s.backend.RefreshMessages(ctx, selected, s.adminID)
	if err != nil {
		s.logger.Warn("refreshing messages failed", zap.String("ticket_id", selected.String()), zap.Error(err))
		return err
	}
	s.setMessages(selected, messages)
	return nil
}

func (s *ChatService) setMessages(id domain.ID, messages []domain.ChatMessage) {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	s.store.Update(func(v *state.View) {
		if v.Selected != id {
			return
		}
		v.Messages = messages
	})
}
