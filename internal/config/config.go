package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"

	// USDA's public demo key, heavily rate limited.
	demoUSDAKey = "DEMO_KEY"
)

type Config struct {
	USDAAPIKey    string
	USDAEndpoint  string
	USDARateLimit float64 // requests per second
	LookupTimeout time.Duration

	GeminiAPIKey string // optional, enables the Gemini food extractor

	StorageBackend string
	DatabaseURL    string
	RedisURL       string

	HTTPPort string
	LogLevel string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := fromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.USDAAPIKey == demoUSDAKey {
		log.Println("USDA_API_KEY not set, using the rate-limited DEMO_KEY")
	}
	AppConfig = cfg
}

// Debug reports whether debug logging is enabled.
func Debug() bool {
	return AppConfig.LogLevel == "DEBUG"
}

func fromEnv() (Config, error) {
	cfg := Config{
		USDAAPIKey:     getEnv("USDA_API_KEY", demoUSDAKey),
		USDAEndpoint:   getEnv("USDA_API_ENDPOINT", "https://api.nal.usda.gov/fdc/v1"),
		USDARateLimit:  getEnvAsFloat("USDA_RATE_LIMIT", 1),
		LookupTimeout:  getEnvAsDuration("LOOKUP_TIMEOUT", 15*time.Second),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", "calorie_chat.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}

	switch cfg.StorageBackend {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want sqlite, redis or memory)", cfg.StorageBackend)
	}
	if cfg.USDARateLimit <= 0 {
		return Config{}, fmt.Errorf("USDA_RATE_LIMIT must be positive, got %v", cfg.USDARateLimit)
	}
	if cfg.LookupTimeout <= 0 {
		return Config{}, fmt.Errorf("LOOKUP_TIMEOUT must be positive, got %v", cfg.LookupTimeout)
	}
	// A blank key, as in a copied .env.example, means no key.
	if strings.TrimSpace(cfg.USDAAPIKey) == "" {
		cfg.USDAAPIKey = demoUSDAKey
	}
	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
