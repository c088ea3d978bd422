package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND
const (
	BackendMemory   = "memory"
	BackendText     = "text"
	BackendBinary   = "binary"
	BackendPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	StorageBackend     string
	DataDir            string
	CartStore          string
	RedisURL           string
	Database           DatabaseConfig
	JWTSecret          string
	TokenTTL           time.Duration
	BcryptCost         int
	RecoverySessionTTL time.Duration
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	OTLPEndpoint       string
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	tokenTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %w", err)
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	recoveryTTL, err := strconv.Atoi(getEnv("RECOVERY_SESSION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECOVERY_SESSION_MINUTES: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", BackendText))
	switch backend {
	case BackendMemory, BackendText, BackendBinary, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", backend)
	}

	cartStore := strings.ToLower(getEnv("CART_STORE", "default"))
	if cartStore != "default" && cartStore != "redis" {
		return nil, fmt.Errorf("invalid CART_STORE %q", cartStore)
	}

	env := getEnv("ENVIRONMENT", "development")
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		if env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		secret = "dev-secret-change-me"
	}

	return &Config{
		Environment:    env,
		ServerPort:     port,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageBackend: backend,
		DataDir:        getEnv("DATA_DIR", "data"),
		CartStore:      cartStore,
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "shopcart"),
			Password: getEnv("DB_PASSWORD", "dev"),
			Name:     getEnv("DB_NAME", "shopcart"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:          secret,
		TokenTTL:           time.Duration(tokenTTL) * time.Minute,
		BcryptCost:         bcryptCost,
		RecoverySessionTTL: time.Duration(recoveryTTL) * time.Minute,
		RateLimitPerMinute: rateLimit,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
