package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-service/internal/models"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisURL string

	// NATS
	NATSURL     string
	NATSEnabled bool

	// Server
	Port        string
	Environment string

	// JWT
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// File storage
	UploadDir   string
	ImageDir    string
	ImagePrefix string

	// SMTP notifications
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	AdminEmail  string
	SMTPEnabled bool
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	natsEnabled, _ := strconv.ParseBool(getEnv("NATS_ENABLED", "false"))

	cfg := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "catalog_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// NATS
		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		NATSEnabled: natsEnabled,

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),

		// CORS
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "")),

		// File storage
		UploadDir:   getEnv("UPLOAD_DIR", "./data/uploads"),
		ImageDir:    getEnv("IMAGE_DIR", "./data/images"),
		ImagePrefix: getEnv("IMAGE_PREFIX", "/Uploads/"),

		// SMTP
		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   smtpPort,
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		SMTPFrom:   getEnv("SMTP_FROM", "catalog@localhost"),
		AdminEmail: getEnv("ADMIN_EMAIL", ""),
	}
	cfg.SMTPEnabled = cfg.SMTPHost != "" && cfg.AdminEmail != ""

	return cfg
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate adds missing tables and columns but never drops existing
	// columns.
	log.Println("Running auto-migrations...")
	if err := db.AutoMigrate(
		&models.Supplier{},
		&models.Product{},
		&models.UploadBatch{},
		&models.StagedProduct{},
	); err != nil {
		return nil, fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	log.Println("Auto-migrations completed successfully")

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
