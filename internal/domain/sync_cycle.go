package domain

import "time"

// SyncCycle is the journal record of one finished poll.
type SyncCycle struct {
	ID        int64
	Loop      string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   string
	Items     int
	Changes   int
	Error     string
}
