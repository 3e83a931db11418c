package handlers

import (
	"context"
	"strings"

	"chattr/server/internal/groups"
	"chattr/server/internal/models"
	"chattr/server/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GroupResolver maps a provider channel id back to a local group.
type GroupResolver interface {
	FindByChannelID(ctx context.Context, channelID string) (*models.Group, error)
}

// WebhookHandler receives events pushed by the chat provider and forwards
// new group messages to the notification hook. The provider retries non-2xx
// responses aggressively, so internal failures are logged and acknowledged;
// only an unparseable body is rejected.
type WebhookHandler struct {
	resolver GroupResolver
	hook     notifications.Hook
	log      *zap.Logger
}

func NewWebhookHandler(resolver GroupResolver, hook notifications.Hook, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{resolver: resolver, hook: hook, log: log}
}

// StreamEvent is the subset of the provider's webhook payload this relay
// looks at.
type StreamEvent struct {
	Type    string `json:"type"`
	Message struct {
		Text string `json:"text"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"message"`
	Channel struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"channel"`
}

// HandleStreamEvent is the webhook entry point.
func (h *WebhookHandler) HandleStreamEvent(c *fiber.Ctx) error {
	var event StreamEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid webhook payload",
		})
	}

	if event.Type != "message.new" || event.Channel.Type != "messaging" ||
		!strings.HasPrefix(event.Channel.ID, groups.ChannelIDPrefix) {
		return c.JSON(fiber.Map{"success": true})
	}

	group, err := h.resolver.FindByChannelID(c.Context(), event.Channel.ID)
	if err != nil {
		if groups.KindOf(err) == groups.KindNotFound {
			// An event for a channel we never created; not ours to handle.
			h.log.Info("webhook event for unknown channel",
				zap.String("channelId", event.Channel.ID))
		} else {
			h.log.Error("webhook group lookup failed",
				zap.String("channelId", event.Channel.ID), zap.Error(err))
		}
		return c.JSON(fiber.Map{"success": true})
	}

	// Fire and forget; a slow hook must not hold up the webhook response.
	groupID, senderID, text := group.ID, event.Message.User.ID, event.Message.Text
	go h.hook.Notify(groupID, senderID, text)

	return c.JSON(fiber.Map{"success": true})
}
