package worker

import (
	"github.com/spec-kit/helpdesk-sync/internal/service"
)

// StartNotificationWorker registers the fan-out handlers for produced
// notifications and finished cycles.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
