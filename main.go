package main

import (
	"context"
	"log"

	"chattr/server/internal/config"
	"chattr/server/internal/database"
	"chattr/server/internal/groups"
	"chattr/server/internal/handlers"
	"chattr/server/internal/logger"
	"chattr/server/internal/notifications"
	"chattr/server/internal/provider"
	"chattr/server/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Production); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Chat provider client, injected everywhere it is needed
	streamProvider, err := provider.NewStreamProvider(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		log.Fatalf("Failed to create stream provider: %v", err)
	}

	store := groups.NewPGStore(pool)
	groupService := groups.NewService(store, streamProvider, logger.L)
	hook := notifications.NewLogHook(logger.L)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Chattr API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))

	// Setup routes
	routes.Setup(app, routes.Deps{
		Groups:        handlers.NewGroupHandler(groupService, logger.L),
		Webhooks:      handlers.NewWebhookHandler(groupService, hook, logger.L),
		Notifications: handlers.NewNotificationHandler(),
		JWTSecret:     []byte(cfg.JWTSecret),
	})

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
