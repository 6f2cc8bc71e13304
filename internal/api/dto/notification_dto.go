package dto

import (
	"time"

	"github.com/spec-kit/crisis-service/internal/domain"
)

// NotificationResponse is the wire form of a notification.
type NotificationResponse struct {
	ID       int64     `json:"id"`
	Message  string    `json:"message"`
	Channel  string    `json:"channel"`
	UserID   int64     `json:"userId"`
	CrisisID int64     `json:"crisisId"`
	SentAt   time.Time `json:"sentAt"`
	IsRead   bool      `json:"isRead"`
}

// NewNotificationResponse maps the domain model to its wire form.
func NewNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:       notification.ID,
		Message:  notification.Message,
		Channel:  string(notification.Channel),
		UserID:   notification.UserID,
		CrisisID: notification.CrisisID,
		SentAt:   notification.SentAt,
		IsRead:   notification.IsRead,
	}
}

// NewNotificationResponses maps a slice of notifications.
func NewNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, NewNotificationResponse(&notifications[i]))
	}
	return result
}
