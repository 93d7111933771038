package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishReachesEveryHandlerDespiteErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var seen []string
	d.Subscribe(EventCycleCompleted, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventCycleCompleted, func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		assert.NotEmpty(t, e.ID)
		return nil
	})
	d.Subscribe(EventNotificationsProduced, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCycleCompleted}))

	assert.Equal(t, []string{"first", "second"}, seen)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}
