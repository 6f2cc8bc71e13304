package worker

import (
	"github.com/spec-kit/crisis-service/internal/service"
)

// StartNotificationWorker registers notification delivery handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
