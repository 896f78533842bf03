package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Push       PushConfig
	Jobs       JobsConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	SeedTestData   bool
}

type DatabaseConfig struct {
	URL string
	// Driver selects the database/sql driver behind GORM: "pgx" (default) or "postgres" (lib/pq)
	Driver string
}

type JWTConfig struct {
	Secret            string
	ExpiryHours       int
	RefreshExpiryDays int
}

type RedisConfig struct {
	URL            string
	WorkerCacheTTL int // seconds
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PushConfig struct {
	ExpoURL string
	Enabled bool
}

type JobsConfig struct {
	TokenCleanupSchedule string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			SeedTestData:   getEnvAsBool("SEED_TEST_DATA", false),
		},
		Database: DatabaseConfig{
			URL:    getEnv("DB_URL", ""),
			Driver: getEnv("DB_DRIVER", "pgx"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours:       getEnvAsInt("JWT_EXPIRY_HOURS", 24),
			RefreshExpiryDays: getEnvAsInt("REFRESH_TOKEN_DAYS", 30),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			WorkerCacheTTL: getEnvAsInt("WORKER_CACHE_TTL_SECONDS", 30),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Push: PushConfig{
			ExpoURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
			Enabled: getEnvAsBool("PUSH_ENABLED", true),
		},
		Jobs: JobsConfig{
			TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_CRON", "@daily"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
