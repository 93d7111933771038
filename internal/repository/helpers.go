package repository

import "time"

const (
	defaultLimit = 50
	maxLimit     = 500
)

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
