package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// DefaultOutboxKey is the Redis hash holding pending notifications.
const DefaultOutboxKey = "helpdesk-sync:notification-outbox"

// NotificationOutboxRepository holds locally created notifications until
// the backend echoes them. Pending returns entries oldest first.
type NotificationOutboxRepository interface {
	Add(ctx context.Context, pending domain.PendingNotification) error
	Pending(ctx context.Context) ([]domain.PendingNotification, error)
	Remove(ctx context.Context, ids ...domain.ID) error
}

type redisOutbox struct {
	client *redis.Client
	key    string
}

// NewRedisOutbox stores the outbox in a Redis hash keyed by notification id,
// so it survives restarts.
func NewRedisOutbox(client *redis.Client, key string) NotificationOutboxRepository {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &redisOutbox{client: client, key: key}
}

func (o *redisOutbox) Add(ctx context.Context, pending domain.PendingNotification) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending notification: %w", err)
	}
	return o.client.HSet(ctx, o.key, pending.Notification.ID.String(), payload).Err()
}

func (o *redisOutbox) Pending(ctx context.Context) ([]domain.PendingNotification, error) {
	raw, err := o.client.HGetAll(ctx, o.key).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.PendingNotification, 0, len(raw))
	var corrupt []string
	for field, value := range raw {
		var pending domain.PendingNotification
		if err := json.Unmarshal([]byte(value), &pending); err != nil {
			corrupt = append(corrupt, field)
			continue
		}
		result = append(result, pending)
	}
	if len(corrupt) > 0 {
		if err := o.client.HDel(ctx, o.key, corrupt...).Err(); err != nil {
			return nil, err
		}
	}
	sortOldestFirst(result)
	return result, nil
}

func (o *redisOutbox) Remove(ctx context.Context, ids ...domain.ID) error {
	if len(ids) == 0 {
		return nil
	}
	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, id.String())
	}
	return o.client.HDel(ctx, o.key, fields...).Err()
}

type memoryOutbox struct {
	mu      sync.Mutex
	entries map[domain.ID]domain.PendingNotification
}

// NewMemoryOutbox keeps the outbox in process.
func NewMemoryOutbox() NotificationOutboxRepository {
	return &memoryOutbox{entries: make(map[domain.ID]domain.PendingNotification)}
}

func (o *memoryOutbox) Add(_ context.Context, pending domain.PendingNotification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[pending.Notification.ID] = pending
	return nil
}

func (o *memoryOutbox) Pending(context.Context) ([]domain.PendingNotification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result := make([]domain.PendingNotification, 0, len(o.entries))
	for _, pending := range o.entries {
		result = append(result, pending)
	}
	sortOldestFirst(result)
	return result, nil
}

func (o *memoryOutbox) Remove(_ context.Context, ids ...domain.ID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		delete(o.entries, id)
	}
	return nil
}

func sortOldestFirst(entries []domain.PendingNotification) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].QueuedAt.Equal(entries[j].QueuedAt) {
			return entries[i].Notification.ID < entries[j].Notification.ID
		}
		return entries[i].QueuedAt.Before(entries[j].QueuedAt)
	})
}
