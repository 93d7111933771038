package domain

import "strings"

// Snapshot is the ordered set of tickets last received from the backend.
type Snapshot []Ticket

// Index maps ticket identifiers to their position in the snapshot. When an
// identifier repeats, the first occurrence wins.
func (s Snapshot) Index() map[ID]int {
	index := make(map[ID]int, len(s))
	for i, ticket := range s {
		if _, exists := index[ticket.ID]; !exists {
			index[ticket.ID] = i
		}
	}
	return index
}

// Find returns the ticket with the given identifier.
func (s Snapshot) Find(id ID) (Ticket, bool) {
	for _, ticket := range s {
		if ticket.ID == id {
			return ticket, true
		}
	}
	return Ticket{}, false
}

// Clone returns a copy that shares no backing array with s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// WithStatus returns a copy with the status of ticket id replaced.
func (s Snapshot) WithStatus(id ID, status TicketStatus) Snapshot {
	out := s.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
		}
	}
	return out
}

// Without returns a copy with ticket id removed.
func (s Snapshot) Without(id ID) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, ticket := range s {
		if ticket.ID != id {
			out = append(out, ticket)
		}
	}
	return out
}

// StatusCounts tallies tickets per known status. Unknown statuses are ignored.
func (s Snapshot) StatusCounts() map[TicketStatus]int {
	counts := make(map[TicketStatus]int, len(TicketStatuses))
	for _, status := range TicketStatuses {
		counts[status] = 0
	}
	for _, ticket := range s {
		if _, known := counts[ticket.Status]; known {
			counts[ticket.Status]++
		}
	}
	return counts
}

// Types returns the distinct ticket types in first-seen order.
func (s Snapshot) Types() []string {
	seen := map[string]bool{}
	var types []string
	for _, ticket := range s {
		kind := ticket.TypeOrNone()
		if !seen[kind] {
			seen[kind] = true
			types = append(types, kind)
		}
	}
	return types
}

// TicketFilter narrows a snapshot for display. Empty fields match everything.
type TicketFilter struct {
	Search string
	Status TicketStatus
	Type   string
}

// Filter returns the tickets matching f, preserving order.
func (s Snapshot) Filter(f TicketFilter) Snapshot {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make(Snapshot, 0, len(s))
	for _, ticket := range s {
		if f.Status != "" && ticket.Status != f.Status {
			continue
		}
		if f.Type != "" && ticket.TypeOrNone() != f.Type {
			continue
		}
		if term != "" && !ticket.matches(term) {
			continue
		}
		out = append(out, ticket)
	}
	return out
}

func (t Ticket) matches(term string) bool {
	for _, field := range []string{t.Email, t.Name, string(t.Phone), t.Department} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return strings.Contains(string(t.ID), term)
}
