package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-service/internal/api/dto"
	"github.com/spec-kit/crisis-service/internal/service"
)

// NotificationsHandler exposes notification query endpoints.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// ListForUser handles GET /notifications/user/:userId.
func (h *NotificationsHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	notifications, err := h.notifications.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNotificationResponses(notifications))
}

// MarkAsRead handles PATCH /notifications/:id/mark-as-read.
func (h *NotificationsHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	notification, err := h.notifications.MarkAsRead(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNotificationResponse(notification))
}

// Delete handles DELETE /notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UnreadCount handles GET /notifications/unread-count/user/:userId.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(count)
}
