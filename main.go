package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"freshmarket/internal/config"
	"freshmarket/internal/handlers"
	"freshmarket/internal/middleware"
	"freshmarket/internal/ml"
	"freshmarket/internal/models"
	"freshmarket/internal/repositories"
	"freshmarket/internal/services"
	"freshmarket/internal/session"
	"freshmarket/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	// TranslateError turns the driver's unique-constraint failure into
	// gorm.ErrDuplicatedKey, which the order repository relies on.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.DatabasePath, err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Manager{},
		&models.Product{},
		&models.Order{},
		&models.OrderClaim{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Pretrained inference artifacts ---
	artifacts, err := ml.Load(cfg.RecommenderModelPath, cfg.DemandModelPath, cfg.ProductEncoderPath)
	if err != nil {
		log.Fatalf("Failed to load inference artifacts: %v", err)
	}

	// --- RabbitMQ ---
	// The broker is optional plumbing: without it orders still confirm,
	// they just don't emit events.
	var publisher services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, publisher)
	recommendService := services.NewRecommendService(orderRepo, productRepo, artifacts.Recommender, artifacts.Encoder)
	forecastService := services.NewForecastService(orderRepo, productRepo, artifacts.Demand)

	// --- Sessions ---
	store := session.NewMemoryStore(cfg.SessionTTL)

	// --- Handlers ---
	renderer := handlers.NewViewRenderer(productService, orderService, recommendService, forecastService, authService)
	authHandler := handlers.NewAuthHandler(authService, store, renderer)
	navHandler := handlers.NewNavHandler(renderer)
	cartHandler := handlers.NewCartHandler(productService, renderer)
	orderHandler := handlers.NewOrderHandler(orderService, renderer)
	adminHandler := handlers.NewAdminHandler(productService, authService, renderer)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterPublicRoutes(apiV1)

	sessioned := apiV1.Group("", middleware.SessionRequired(authService, store))
	authHandler.RegisterSessionRoutes(sessioned)
	navHandler.RegisterRoutes(sessioned)
	cartHandler.RegisterRoutes(sessioned)
	orderHandler.RegisterRoutes(sessioned)
	adminHandler.RegisterRoutes(sessioned)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order Event Consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
