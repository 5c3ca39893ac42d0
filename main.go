package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/config"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/metrics"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/router"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/counts"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"
)

func main() {
	// Initialize the Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())   // Recover middleware to handle panics
	app.Use(cors.New())      // CORS middleware for cross-origin requests
	app.Use(requestid.New()) // Middleware to generate unique request IDs

	// Setup environment variables
	config.SetupEnv()

	// Connect to the database
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	// Count cache is optional; without Redis the aggregator counts ledger
	// rows directly.
	var redisClient *redis.Client
	if redisURL := config.Config("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}
	counts.Default = counts.New(database.DB, redisClient, 30*time.Minute)

	// Notification fan-out worker
	notifications.Default = notifications.NewDispatcher(database.DB, 0)
	go notifications.Default.Run()

	// Prometheus metrics on a side listener
	go metrics.Serve(":" + config.ConfigOr("METRICS_PORT", "9100"))

	// Set up routes
	router.InitialiseAndSetupRoutes(app)

	// Get port from config and start the server
	port := config.ConfigOr("APP_PORT", "3000")
	log.Fatal(app.Listen(fmt.Sprintf(":%s", port)))
}
