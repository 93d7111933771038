package observability

import (
	"strconv"
	"sync"
	"time"
)

// LoopStats summarises the cycles of one sync loop.
type LoopStats struct {
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	Changes      int64         `json:"changes"`
	LastRun      time.Time     `json:"last_run"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
}

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	loops        map[string]LoopStats
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests map[string]int64     `json:"requests"`
	Errors   map[string]int64     `json:"errors"`
	Loops    map[string]LoopStats `json:"loops"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		loops:        make(map[string]LoopStats),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordCycle records one finished cycle of a sync loop.
func (m *Metrics) RecordCycle(loop string, startedAt time.Time, duration time.Duration, changes int, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.loops[loop]
	stats.Runs++
	stats.Changes += int64(changes)
	stats.LastRun = startedAt
	stats.LastDuration = duration
	stats.LastError = ""
	if err != nil {
		stats.Failures++
		stats.LastError = err.Error()
	}
	m.loops[loop] = stats
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	out := MetricsSnapshot{
		Requests: map[string]int64{},
		Errors:   map[string]int64{},
		Loops:    map[string]LoopStats{},
	}
	if m == nil {
		return out
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		out.Requests[k] = v
	}
	for k, v := range m.errorCount {
		out.Errors[k] = v
	}
	for k, v := range m.loops {
		out.Loops[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
