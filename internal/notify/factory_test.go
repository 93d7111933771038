package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/events"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type recordingAlerter struct {
	calls []int
	err   error
}

func (r *recordingAlerter) Alert(_ context.Context, produced int) error {
	r.calls = append(r.calls, produced)
	return r.err
}

func sequenceIDs(ids ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		id := ids[i%len(ids)]
		i++
		return id, nil
	}
}

func TestFromChangeEvent(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))

	n := f.FromChangeEvent(events.TextboxChanged("1", "urgent"), nil)

	assert.Equal(t, "New message for ticket 1: urgent", n.Message)
	assert.Equal(t, "2024-06-01T09:30:00.000Z", n.Timestamp)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)
}

func TestFromActionAnnouncement(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t))

	n := f.FromAction(ActionAnnouncement, "office closed friday", nil)

	assert.Equal(t, "Announcement: office closed friday", n.Message)
	assert.False(t, n.Read)
}

func TestIdentifiersAvoidExistingOnes(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t), WithIDSource(sequenceIDs("dup", "dup", "fresh")))
	existing := domain.Notifications{{ID: "dup"}}

	n := f.FromChangeEvent(events.TextboxChanged("1", "x"), existing)

	assert.Equal(t, domain.ID("fresh"), n.ID)
}

func TestBatchIdentifiersAreUniqueWithinTheBatch(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t), WithIDSource(sequenceIDs("a", "a", "b")))
	changes := []events.ChangeEvent{events.TextboxChanged("1", "x"), events.TextboxChanged("2", "y")}

	batch := f.FromChangeEvents(changes, nil)

	require.Len(t, batch, 2)
	assert.Equal(t, domain.ID("a"), batch[0].ID)
	assert.Equal(t, domain.ID("b"), batch[1].ID)
	assert.True(t, strings.HasSuffix(batch[1].Message, "2: y"))
}

func TestDefaultIdentifiersAreDistinct(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t))
	changes := make([]events.ChangeEvent, 50)
	for i := range changes {
		changes[i] = events.TextboxChanged("1", "x")
	}

	seen := map[domain.ID]bool{}
	for _, n := range f.FromChangeEvents(changes, nil) {
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}
}

func TestIDSourceErrorFallsBackToClock(t *testing.T) {
	f := NewFactory(zaptest.NewLogger(t),
		WithClock(func() time.Time { return fixedNow }),
		WithIDSource(func() (string, error) { return "", errors.New("entropy exhausted") }))

	n := f.FromChangeEvent(events.TextboxChanged("1", "x"), nil)

	assert.True(t, strings.HasPrefix(string(n.ID), "1717234200000000000-"))
}

func TestAlertOncePerBatchAndSwallowsFailure(t *testing.T) {
	alerter := &recordingAlerter{err: errors.New("no audio device")}
	f := NewFactory(zaptest.NewLogger(t), WithAlerter(alerter))

	f.Alert(context.Background(), 0)
	f.Alert(context.Background(), 3)

	assert.Equal(t, []int{3}, alerter.calls)
}
