package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEverySchedulesFixedIntervals(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	require.NoError(t, s.Every("tickets", 30*time.Second, func(context.Context) {}))
	require.NoError(t, s.Every("notifications", 15*time.Second, func(context.Context) {}))

	clock := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	var ticks []time.Time
	for i := 0; i < 3; i++ {
		next, ok := s.NextRun("tickets", clock)
		require.True(t, ok)
		ticks = append(ticks, next)
		clock = next
	}
	assert.Equal(t, []time.Time{
		time.Date(2024, 3, 10, 9, 0, 30, 0, time.UTC),
		time.Date(2024, 3, 10, 9, 1, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 9, 1, 30, 0, time.UTC),
	}, ticks)

	next, ok := s.NextRun("notifications", clock)
	require.True(t, ok)
	assert.Equal(t, clock.Add(15*time.Second), next)

	_, ok = s.NextRun("missing", clock)
	assert.False(t, ok)
}

func TestRunNow(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	var calls atomic.Int32
	require.NoError(t, s.Every("notifications", time.Hour, func(context.Context) { calls.Add(1) }))

	assert.True(t, s.RunNow("notifications"))
	assert.True(t, s.RunNow("notifications"))
	assert.False(t, s.RunNow("missing"))

	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidInterval(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	for _, interval := range []time.Duration{0, -time.Second, 500 * time.Millisecond, 1500 * time.Millisecond} {
		assert.Error(t, s.Every("bad", interval, func(context.Context) {}), interval.String())
	}
	assert.Empty(t, s.Names())
}

func TestEveryReplacesSameName(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	var first, second atomic.Int32
	require.NoError(t, s.Every("tickets", time.Hour, func(context.Context) { first.Add(1) }))
	require.NoError(t, s.Every("tickets", time.Hour, func(context.Context) { second.Add(1) }))

	s.RunNow("tickets")

	assert.Equal(t, []string{"tickets"}, s.Names())
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestRemove(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	require.NoError(t, s.Every("a", time.Hour, func(context.Context) {}))
	require.NoError(t, s.Every("b", time.Hour, func(context.Context) {}))

	s.Remove("a")

	assert.Equal(t, []string{"b"}, s.Names())
	assert.False(t, s.RunNow("a"))
}

func TestSkipIfRunning(t *testing.T) {
	s := New(zap.NewNop(), Options{SkipIfRunning: true})
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	require.NoError(t, s.Every("tickets", time.Hour, func(context.Context) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RunNow("tickets")
	}()
	<-started

	s.RunNow("tickets")
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestStopCancelsTaskContext(t *testing.T) {
	s := New(zap.NewNop(), Options{})
	var seen context.Context
	require.NoError(t, s.Every("tickets", time.Hour, func(ctx context.Context) { seen = ctx }))
	s.RunNow("tickets")
	require.NotNil(t, seen)
	assert.NoError(t, seen.Err())

	s.Start()
	s.Stop()

	assert.ErrorIs(t, seen.Err(), context.Canceled)
	assert.Empty(t, s.Names())
}
