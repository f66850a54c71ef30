package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"proshop/internal/handlers"
	"proshop/internal/middleware"
	"proshop/internal/models"
	"proshop/internal/repositories"
	"proshop/internal/services"
	"proshop/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "proshop.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Initialize Database ---
	var dialector gorm.Dialector
	switch viper.GetString("DB_DRIVER") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("DATABASE_URL"))
	default:
		dialector = sqlite.Open(viper.GetString("SQLITE_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Notification{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// The order service tolerates a nil client; events are simply skipped.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled.")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)

	// Seed some catalog data so orders can snapshot product name/price
	seedProducts(productRepo)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	orderService := services.NewOrderService(orderRepo, productRepo, mqClient)
	statsService := services.NewStatsService(orderRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	statsHandler := handlers.NewStatsHandler(statsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(protectedRoutes)
	notificationHandler.RegisterRoutes(protectedRoutes)
	notificationHandler.RegisterAdminRoutes(protectedRoutes)

	// The dashboard stats endpoint is admin-only
	adminRoutes := protectedRoutes.Group("", middleware.AdminRequired())
	statsHandler.RegisterRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// Order lifecycle events are turned into notification records so the
	// dashboard bell reflects what happened to each order.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(event rabbitmq.OrderEvent) error {
				return notificationService.Create(notificationFromEvent(event))
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// RabbitMQ connection close is handled by defer in main
	log.Println("Server gracefully stopped")
}

// notificationFromEvent maps an order lifecycle event to the notification
// record shown to the order's owner.
func notificationFromEvent(event rabbitmq.OrderEvent) *models.Notification {
	var title, message string
	switch event.Type {
	case rabbitmq.EventOrderCreated:
		title = "Order placed"
		message = fmt.Sprintf("Your order %s has been placed.", event.OrderID)
	case rabbitmq.EventOrderPaid:
		title = "Payment received"
		message = fmt.Sprintf("Payment of %s for order %s has been received.", event.Total, event.OrderID)
	case rabbitmq.EventOrderDelivered:
		title = "Order delivered"
		message = fmt.Sprintf("Your order %s has been delivered.", event.OrderID)
	default:
		title = "Order updated"
		message = fmt.Sprintf("Your order %s is now %s.", event.OrderID, event.Status)
	}
	return &models.Notification{
		UserID:    event.UserID,
		Type:      models.NotificationOrder,
		Title:     title,
		Message:   message,
		CreatedAt: event.OccurredAt,
	}
}

// seedProducts populates the catalog with some initial data when empty.
func seedProducts(repo repositories.ProductRepository) {
	existing, err := repo.GetAll()
	if err != nil || len(existing) > 0 {
		return
	}

	products := []models.Product{
		{ID: "prod-1", Name: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00"), Stock: 10},
		{ID: "prod-2", Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.RequireFromString("75.00"), Stock: 25},
		{ID: "prod-3", Name: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.00"), Stock: 50},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
