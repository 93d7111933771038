package backend

import (
	"context"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

type notificationRef struct {
	ID domain.ID `json:"id"`
}

// Notifications fetches the authoritative notification list.
func (c *Client) Notifications(ctx context.Context) (domain.Notifications, error) {
	body, err := c.get(ctx, "/api/notifications", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Notification](body)
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id domain.ID) error {
	_, err := c.post(ctx, "/mark-notification-read", notificationRef{ID: id})
	return err
}

// MarkAllNotificationsRead marks every notification read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.post(ctx, "/mark-all-notifications-read", nil)
	return err
}

// DeleteNotification deletes one notification.
func (c *Client) DeleteNotification(ctx context.Context, id domain.ID) error {
	_, err := c.post(ctx, "/delete-notification", notificationRef{ID: id})
	return err
}
