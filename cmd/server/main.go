package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-api/internal/adapters/events"
	"library-api/internal/adapters/http/middleware"
	"library-api/internal/adapters/http/routes"
	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/config"
	"library-api/internal/core/services"
	"library-api/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	_ "library-api/docs" // Swagger docs
)

// @title Library API
// @version 1.0
// @description Library management API: catalogue, members and loans

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	clk := clock.System{Location: cfg.Location()}

	// Seed demo catalogue
	if cfg.SeedData {
		if err := config.NewSeeder(db, clk.Today()).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed data: %v", err)
		}
	}

	// Loan events go to a Redis stream when configured
	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	svc := routes.NewServices(repositories.NewStore(db), clk, cfg, publisher)

	// Daily overdue scan
	scanner, err := services.NewOverdueScanService(svc.Loans, publisher, cfg.OverdueScanCron, cfg.Location())
	if err != nil {
		log.Fatalf("❌ Failed to schedule overdue scan: %v", err)
	}
	scanner.Start()
	defer scanner.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Library API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, cfg, config.HealthCheck)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newPublisher connects to Redis, falling back to a no-op publisher when
// Redis is not configured or unreachable
func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.Redis.Addr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, loan events disabled")
		return events.NopPublisher{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Warning: Redis unreachable at %s, loan events disabled: %v", cfg.Redis.Addr, err)
		_ = client.Close()
		return events.NopPublisher{}, func() {}
	}

	log.Printf("✅ Publishing loan events to Redis stream %s", cfg.Redis.Stream)
	return events.NewRedisPublisher(client, cfg.Redis.Stream), func() {
		if err := client.Close(); err != nil {
			log.Printf("❌ Error closing Redis client: %v", err)
		}
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
