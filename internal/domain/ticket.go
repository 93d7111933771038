package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusScheduled  TicketStatus = "Scheduled"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusWaiting    TicketStatus = "Waiting"
	TicketStatusCompleted  TicketStatus = "Completed"
)

// TicketStatuses lists the known statuses in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusScheduled,
	TicketStatusInProgress,
	TicketStatusWaiting,
	TicketStatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Column headers of the source sheet, used as JSON keys by the backend.
const (
	ColumnID          = "Ticket ID"
	ColumnEmail       = "อีเมล"
	ColumnName        = "ชื่อ"
	ColumnPhone       = "เบอร์ติดต่อ"
	ColumnDepartment  = "แผนก"
	ColumnCreatedAt   = "วันที่แจ้ง"
	ColumnStatus      = "สถานะ"
	ColumnAppointment = "Appointment"
	ColumnRequest     = "Requeste"
	ColumnReport      = "Report"
	ColumnType        = "Type"
	ColumnTextbox     = "TEXTBOX"
)

// Ticket is a support request as served by the backend. On the wire it is an
// object keyed by the sheet column headers; see UnmarshalJSON.
type Ticket struct {
	ID          ID
	Email       string
	Name        string
	Phone       ID
	Department  string
	CreatedAt   string
	Status      TicketStatus
	Appointment string
	Request     string
	Report      string
	Type        string
	Textbox     string
}

// UnmarshalJSON reads a sheet row. Every cell is coerced to text: numbers
// keep their literal form and any other non-string value becomes "", so one
// odd cell never rejects the row.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var cells map[string]json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	*t = Ticket{
		ID:          ID(cellText(cells[ColumnID])),
		Email:       cellText(cells[ColumnEmail]),
		Name:        cellText(cells[ColumnName]),
		Phone:       ID(cellText(cells[ColumnPhone])),
		Department:  cellText(cells[ColumnDepartment]),
		CreatedAt:   cellText(cells[ColumnCreatedAt]),
		Status:      TicketStatus(cellText(cells[ColumnStatus])),
		Appointment: cellText(cells[ColumnAppointment]),
		Request:     cellText(cells[ColumnRequest]),
		Report:      cellText(cells[ColumnReport]),
		Type:        cellText(cells[ColumnType]),
		Textbox:     cellText(cells[ColumnTextbox]),
	}
	return nil
}

// MarshalJSON writes the row back under the sheet column headers.
func (t Ticket) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		ColumnID:          t.ID,
		ColumnEmail:       t.Email,
		ColumnName:        t.Name,
		ColumnPhone:       t.Phone,
		ColumnDepartment:  t.Department,
		ColumnCreatedAt:   t.CreatedAt,
		ColumnStatus:      t.Status,
		ColumnAppointment: t.Appointment,
		ColumnRequest:     t.Request,
		ColumnReport:      t.Report,
		ColumnType:        t.Type,
		ColumnTextbox:     t.Textbox,
	})
}

func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

// Created parses the creation timestamp. The second return is false when the
// value is absent or in no recognised layout.
func (t Ticket) Created() (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt)
}

// AppointmentAt parses the optional appointment timestamp.
func (t Ticket) AppointmentAt() (time.Time, bool) {
	return ParseTimestamp(t.Appointment)
}

// TypeOrNone returns the ticket type, or "None" when unset.
func (t Ticket) TypeOrNone() string {
	if strings.TrimSpace(t.Type) == "" {
		return "None"
	}
	return t.Type
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTimestamp accepts the timestamp layouts the backend and the source
// sheet are known to produce. Layouts without a zone are read as local time.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
