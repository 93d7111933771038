// Package escalation derives the display urgency of a ticket from its age and
// status.
package escalation

import (
	"time"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// Age gates, checked from the highest down. A ticket must be strictly older
// than a gate to reach its tier.
const (
	YellowAfter = 4 * 24 * time.Hour  // 5760 minutes
	OrangeAfter = 5 * 24 * time.Hour  // 7200 minutes
	RedAfter    = 10 * 24 * time.Hour // 14400 minutes
)

// Classify returns the tier for a ticket created at createdAt with the given
// status, as seen at now. A nil createdAt means the timestamp is absent.
func Classify(createdAt *time.Time, status domain.TicketStatus, now time.Time) domain.Tier {
	if status == domain.TicketStatusCompleted {
		return domain.TierGreen
	}
	if createdAt == nil {
		return domain.TierNone
	}
	return ForAge(now.Sub(*createdAt))
}

// ForAge maps an age to its tier, ignoring status.
func ForAge(age time.Duration) domain.Tier {
	switch {
	case age > RedAfter:
		return domain.TierRed
	case age > OrangeAfter:
		return domain.TierOrange
	case age > YellowAfter:
		return domain.TierYellow
	default:
		return domain.TierNone
	}
}

// ClassifyTicket parses the ticket's creation timestamp and classifies it.
// Unparsable timestamps degrade to no timestamp.
func ClassifyTicket(ticket domain.Ticket, now time.Time) domain.Tier {
	created, ok := ticket.Created()
	if !ok {
		return Classify(nil, ticket.Status, now)
	}
	return Classify(&created, ticket.Status, now)
}

// Classifier binds a clock so callers can classify on every render without
// threading the current time through.
type Classifier struct {
	now func() time.Time
}

// NewClassifier creates a classifier. A nil clock defaults to time.Now.
func NewClassifier(now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

// Ticket classifies one ticket against the current time.
func (c *Classifier) Ticket(ticket domain.Ticket) domain.Tier {
	return ClassifyTicket(ticket, c.now())
}
