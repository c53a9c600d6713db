package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/ingest"
	"catalog-service/internal/middleware"
	"catalog-service/internal/notify"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"
	"catalog-service/internal/storage"
)

// @title Catalog Service API
// @version 1.0.0
// @description Supplier catalog ingestion with admin review: CSV/XLSX uploads staged for approval before reaching the live catalog

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Redis is optional; the catalog falls back to uncached reads.
	var redisClient *redis.Client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
	} else {
		redisClient = redis.NewClient(redisOpts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
			redisClient = nil
		} else {
			log.Println("✓ Redis connected successfully")
		}
		cancel()
	}

	uploadStore, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}
	imageStore, err := storage.NewDiskStore(cfg.ImageDir)
	if err != nil {
		log.Fatal("Failed to initialize image storage:", err)
	}

	stagingRepo := repository.NewStagingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, redisClient)

	// Event publisher is optional: a nil *Publisher is a no-op notifier.
	var publisher *events.Publisher
	if cfg.NATSEnabled {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS disabled, skipping event publishing initialization")
	}
	defer publisher.Close()

	var mailer notify.Mailer
	if cfg.SMTPEnabled {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.AdminEmail)
		log.Println("✓ SMTP notifications enabled")
	}

	validator := ingest.NewValidator(imageStore, cfg.ImagePrefix)
	ingestService := services.NewIngestService(stagingRepo, catalogRepo, uploadStore, validator, publisher, mailer, logger)
	promotionService := services.NewPromotionService(stagingRepo, catalogRepo, uploadStore, publisher, logger)

	ingestHandler := handlers.NewIngestHandler(ingestService)
	reviewHandler := handlers.NewReviewHandler(promotionService)
	templateHandler := handlers.NewTemplateHandler()
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", catalogHandler.Health)
	router.GET("/ready", catalogHandler.Health)

	api := router.Group("/api/v1")
	{
		// Public storefront endpoints
		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/products/:code", catalogHandler.GetProduct)
		api.GET("/suppliers", catalogHandler.ListSuppliers)
		api.GET("/catalog/import/template", templateHandler.GetImportTemplate)

		// Authenticated catalog endpoints
		catalog := api.Group("/catalog")
		catalog.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			catalog.POST("/upload", ingestHandler.Upload)
			catalog.GET("/pending", ingestHandler.ListPending)
			catalog.GET("/pending/:id/preview", ingestHandler.Preview)

			// Review decisions are admin-only
			review := catalog.Group("/pending/:id")
			review.Use(middleware.RequireAdmin())
			{
				review.POST("/approve", reviewHandler.Approve)
				review.POST("/reject", reviewHandler.Reject)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down catalog-service...")
	log.Println("Catalog service stopped")
}
