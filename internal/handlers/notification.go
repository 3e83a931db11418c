package handlers

import "github.com/gofiber/fiber/v2"

// NotificationHandler keeps the push subscription endpoints registered while
// push delivery is disabled, so clients get an explicit 501 instead of a 404.
type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// Subscribe registers a push subscription (currently disabled)
func (h *NotificationHandler) Subscribe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"success": false,
		"error":   "Push notifications are not available",
	})
}

// Unsubscribe removes a push subscription (currently disabled)
func (h *NotificationHandler) Unsubscribe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"success": false,
		"error":   "Push notifications are not available",
	})
}
