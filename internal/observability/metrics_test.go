package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordCycle(t *testing.T) {
	m := NewMetrics()
	started := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	m.RecordCycle("tickets", started, time.Second, 2, nil)
	m.RecordCycle("tickets", started.Add(30*time.Second), time.Second, 0, errors.New("timeout"))
	m.RecordCycle("tickets", started.Add(time.Minute), time.Second, 1, nil)

	stats := m.Snapshot().Loops["tickets"]
	assert.Equal(t, int64(3), stats.Runs)
	assert.Equal(t, int64(1), stats.Failures)
	assert.Equal(t, int64(3), stats.Changes)
	assert.Empty(t, stats.LastError)
	assert.Equal(t, started.Add(time.Minute), stats.LastRun)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordCycle("tickets", time.Now(), 0, 0, nil)
	assert.Empty(t, m.Snapshot().Loops)
}

func TestRequestAndErrorCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/view/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/view/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/view/tickets/status", "POST", "BACKEND_REJECTED")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/view/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/view/tickets/status|POST|BACKEND_REJECTED"])
}
