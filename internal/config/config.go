package config

import (
	"os"
	"strconv"
	"time"

	"github.com/yukikurage/crm-api/internal/constants"
)

type Config struct {
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBLogLevel        string
	RedisHost         string
	RedisPort         string
	SessionSecret     string
	GinMode           string
	HTTPAddress       string
	LeadIDMaxAttempts int
	RequestTimeout    time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "crmuser"),
		DBPassword:        getEnv("DB_PASSWORD", "crmpassword"),
		DBName:            getEnv("DB_NAME", "crm"),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		SessionSecret:     getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		HTTPAddress:       getEnv("HTTP_ADDRESS", ":8080"),
		LeadIDMaxAttempts: getIntEnv("LEAD_ID_MAX_ATTEMPTS", constants.DefaultLeadIDMaxAttempts),
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
