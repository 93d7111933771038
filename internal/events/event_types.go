package events

import (
	"time"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTextboxChanged        EventType = "textbox_changed"
	EventNotificationsProduced EventType = "notifications_produced"
	EventCycleCompleted        EventType = "cycle_completed"
)

// ChangeEvent is a difference between two ticket snapshots worth notifying
// about.
type ChangeEvent struct {
	Type     EventType `json:"type"`
	TicketID domain.ID `json:"ticket_id"`
	NewText  string    `json:"new_text"`
}

// TextboxChanged builds the change event for a ticket whose textbox now holds text.
func TextboxChanged(ticketID domain.ID, text string) ChangeEvent {
	return ChangeEvent{Type: EventTextboxChanged, TicketID: ticketID, NewText: text}
}

// Event represents a published event.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NotificationsProducedPayload carries the notifications created locally in
// one cycle or action.
type NotificationsProducedPayload struct {
	Source        string               `json:"source"`
	Notifications domain.Notifications `json:"notifications"`
}

// CycleOutcome classifies how a sync cycle ended.
type CycleOutcome string

const (
	CycleSucceeded CycleOutcome = "succeeded"
	CycleFailed    CycleOutcome = "failed"
	CycleDiscarded CycleOutcome = "discarded"
)

// CycleCompletedPayload describes one finished sync cycle.
type CycleCompletedPayload struct {
	Loop      string        `json:"loop"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Outcome   CycleOutcome  `json:"outcome"`
	Items     int           `json:"items"`
	Changes   int           `json:"changes"`
	Error     string        `json:"error,omitempty"`
}
