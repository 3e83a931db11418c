package routes

import (
	"chattr/server/internal/handlers"
	"chattr/server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Deps carries the wired handlers into route registration.
type Deps struct {
	Groups        *handlers.GroupHandler
	Webhooks      *handlers.WebhookHandler
	Notifications *handlers.NotificationHandler
	JWTSecret     []byte
}

// Setup configures all application routes
func Setup(app *fiber.App, deps Deps) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Chattr API is running",
		})
	})

	// Group routes (protected)
	groups := api.Group("/groups", middleware.Auth(deps.JWTSecret))
	groups.Post("/", middleware.ModerateRateLimiter(), deps.Groups.CreateGroup)
	groups.Get("/", middleware.RelaxedRateLimiter(), deps.Groups.GetGroups)
	groups.Get("/:groupId", middleware.RelaxedRateLimiter(), deps.Groups.GetGroupDetails)
	groups.Put("/:groupId", deps.Groups.UpdateGroup)
	groups.Delete("/:groupId", deps.Groups.DeleteGroup)
	groups.Post("/:groupId/members", deps.Groups.AddMembers)
	groups.Delete("/:groupId/members", deps.Groups.RemoveMember)
	groups.Post("/:groupId/leave", deps.Groups.LeaveGroup)
	groups.Post("/:groupId/transfer", deps.Groups.TransferAdmin)

	// Notification routes (protected, push delivery disabled)
	notifications := api.Group("/notifications", middleware.Auth(deps.JWTSecret))
	notifications.Post("/subscribe", deps.Notifications.Subscribe)
	notifications.Post("/unsubscribe", deps.Notifications.Unsubscribe)

	// Provider webhook (public; no rate limit so provider retries are never
	// throttled into a retry storm)
	api.Post("/webhooks/stream", deps.Webhooks.HandleStreamEvent)
}
