package dto

import "github.com/spec-kit/helpdesk-sync/internal/domain"

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// DateFilterRequest payload.
type DateFilterRequest struct {
	Date string `json:"date"`
}

// SelectRequest payload.
type SelectRequest struct {
	TicketID domain.ID `json:"ticket_id"`
}

// DraftRequest payload.
type DraftRequest struct {
	Text string `json:"text"`
}

// SendMessageRequest payload.
type SendMessageRequest struct {
	Message string `json:"message"`
}
