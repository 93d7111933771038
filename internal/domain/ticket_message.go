package domain

// AnnouncementTarget is the pseudo ticket selected to broadcast to all
// ticket owners instead of replying in one thread.
const AnnouncementTarget ID = "announcement"

// ChatMessage is one entry of a ticket's persisted chat thread.
type ChatMessage struct {
	ID             ID     `json:"id"`
	TicketID       ID     `json:"ticket_id"`
	AdminID        string `json:"admin_id"`
	SenderName     string `json:"sender_name"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	IsRead         bool   `json:"is_read"`
	IsAdminMessage bool   `json:"is_admin_message"`
}

// EmailRanking pairs a requester email with its ticket count.
type EmailRanking struct {
	Email       string `json:"email"`
	TicketCount int    `json:"ticket_count"`
}
