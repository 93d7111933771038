package domain

import "time"

// TimestampLayout is the wire format for timestamps produced locally.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Notification is an entry in the operator's notification list. It is created
// either by the backend or locally by the notification factory.
type Notification struct {
	ID        ID     `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Time parses the notification timestamp.
func (n Notification) Time() (time.Time, bool) {
	return ParseTimestamp(n.Timestamp)
}

// Notifications is an ordered notification list, newest first.
type Notifications []Notification

// AnyUnread reports whether at least one notification is unread.
func (ns Notifications) AnyUnread() bool {
	for _, n := range ns {
		if !n.Read {
			return true
		}
	}
	return false
}

// UnreadCount returns the number of unread notifications.
func (ns Notifications) UnreadCount() int {
	count := 0
	for _, n := range ns {
		if !n.Read {
			count++
		}
	}
	return count
}

// Contains reports whether a notification with the given id is present.
func (ns Notifications) Contains(id ID) bool {
	for _, n := range ns {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with ns.
func (ns Notifications) Clone() Notifications {
	if ns == nil {
		return nil
	}
	out := make(Notifications, len(ns))
	copy(out, ns)
	return out
}

// PendingNotification is a locally created notification the backend has not
// echoed back yet.
type PendingNotification struct {
	Notification Notification `json:"notification"`
	QueuedAt     time.Time    `json:"queued_at"`
}
