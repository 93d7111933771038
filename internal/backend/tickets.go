package backend

import (
	"context"
	"net/url"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

type ticketRef struct {
	TicketID domain.ID `json:"ticket_id"`
}

type statusUpdate struct {
	TicketID domain.ID           `json:"ticket_id"`
	Status   domain.TicketStatus `json:"status"`
}

type textboxUpdate struct {
	TicketID domain.ID `json:"ticket_id"`
	Textbox  string    `json:"textbox"`
}

type clearTextboxesResponse struct {
	ClearedCount int `json:"cleared_count"`
}

// Tickets fetches the full ticket snapshot.
func (c *Client) Tickets(ctx context.Context) (domain.Snapshot, error) {
	body, err := c.get(ctx, "/api/data", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Ticket](body)
}

// SyncTickets asks the backend to resync from its source sheet and returns
// the resulting snapshot.
func (c *Client) SyncTickets(ctx context.Context) (domain.Snapshot, error) {
	body, err := c.get(ctx, "/sync-tickets", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Ticket](body)
}

// TicketsByDate fetches the tickets reported on the given calendar date.
func (c *Client) TicketsByDate(ctx context.Context, date string) (domain.Snapshot, error) {
	body, err := c.get(ctx, "/api/data-by-date", url.Values{"date": {date}})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Ticket](body)
}

// ClearTextboxes clears delivered textbox values server-side and returns how
// many were cleared.
func (c *Client) ClearTextboxes(ctx context.Context) (int, error) {
	body, err := c.post(ctx, "/clear-textboxes", nil)
	if err != nil {
		return 0, err
	}
	var resp clearTextboxesResponse
	if err := decodeObject(body, &resp); err != nil {
		return 0, err
	}
	return resp.ClearedCount, nil
}

// EmailRankings fetches the top requester emails by ticket count.
func (c *Client) EmailRankings(ctx context.Context) ([]domain.EmailRanking, error) {
	body, err := c.get(ctx, "/api/email-rankings", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.EmailRanking](body)
}

// UpdateStatus persists a status change.
func (c *Client) UpdateStatus(ctx context.Context, ticketID domain.ID, status domain.TicketStatus) error {
	_, err := c.post(ctx, "/update-status", statusUpdate{TicketID: ticketID, Status: status})
	return err
}

// DeleteTicket deletes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, ticketID domain.ID) error {
	_, err := c.post(ctx, "/delete-ticket", ticketRef{TicketID: ticketID})
	return err
}

// UpdateTextbox sets or clears a ticket's textbox.
func (c *Client) UpdateTextbox(ctx context.Context, ticketID domain.ID, text string) error {
	_, err := c.post(ctx, "/update-textbox", textboxUpdate{TicketID: ticketID, Textbox: text})
	return err
}
