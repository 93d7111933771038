// Package delta compares consecutive ticket snapshots and reports the changes
// that deserve a notification.
package delta

import (
	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
)

// Detect returns one TextboxChanged event for every ticket of next that also
// exists in previous and whose textbox now holds a different, non-empty value.
// Events follow the order of next. Neither input is modified.
func Detect(previous, next domain.Snapshot) []events.ChangeEvent {
	if len(previous) == 0 || len(next) == 0 {
		return nil
	}

	index := previous.Index()
	var changes []events.ChangeEvent
	for _, ticket := range next {
		i, exists := index[ticket.ID]
		if !exists {
			continue
		}
		if ticket.Textbox == "" || ticket.Textbox == previous[i].Textbox {
			continue
		}
		changes = append(changes, events.TextboxChanged(ticket.ID, ticket.Textbox))
	}
	return changes
}
