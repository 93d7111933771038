package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

var queuedAt = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newRedisOutbox(t *testing.T) (NotificationOutboxRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisOutbox(client, ""), server
}

func outboxes(t *testing.T) map[string]NotificationOutboxRepository {
	redisOutbox, _ := newRedisOutbox(t)
	return map[string]NotificationOutboxRepository{
		"redis":  redisOutbox,
		"memory": NewMemoryOutbox(),
	}
}

func TestOutboxLifecycle(t *testing.T) {
	for name, outbox := range outboxes(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, outbox.Add(ctx, domain.PendingNotification{
				Notification: domain.Notification{ID: "late", Message: "second"},
				QueuedAt:     queuedAt.Add(time.Second),
			}))
			require.NoError(t, outbox.Add(ctx, domain.PendingNotification{
				Notification: domain.Notification{ID: "early", Message: "first", Timestamp: "2024-03-10T09:00:00.000Z"},
				QueuedAt:     queuedAt,
			}))

			pending, err := outbox.Pending(ctx)
			require.NoError(t, err)
			require.Len(t, pending, 2)
			assert.Equal(t, domain.ID("early"), pending[0].Notification.ID)
			assert.Equal(t, "2024-03-10T09:00:00.000Z", pending[0].Notification.Timestamp)
			assert.True(t, queuedAt.Equal(pending[0].QueuedAt))

			require.NoError(t, outbox.Remove(ctx, "early", "unknown"))
			pending, err = outbox.Pending(ctx)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, domain.ID("late"), pending[0].Notification.ID)

			require.NoError(t, outbox.Remove(ctx))
		})
	}
}

func TestOutboxAddIsIdempotentPerID(t *testing.T) {
	for name, outbox := range outboxes(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			n := domain.PendingNotification{Notification: domain.Notification{ID: "same"}, QueuedAt: queuedAt}
			require.NoError(t, outbox.Add(ctx, n))
			require.NoError(t, outbox.Add(ctx, n))

			pending, err := outbox.Pending(ctx)
			require.NoError(t, err)
			assert.Len(t, pending, 1)
		})
	}
}

func TestRedisOutboxDropsCorruptEntries(t *testing.T) {
	outbox, server := newRedisOutbox(t)
	server.HSet(DefaultOutboxKey, "broken", "{not json")

	pending, err := outbox.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.False(t, server.Exists(DefaultOutboxKey))
}

func TestRedisOutboxReportsConnectionErrors(t *testing.T) {
	outbox, server := newRedisOutbox(t)
	server.Close()

	_, err := outbox.Pending(context.Background())
	assert.Error(t, err)
}
