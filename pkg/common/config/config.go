package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort    string
	ServerHost    string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxUploadSize int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers     []string
	UploadEventTopic string

	// Upload handling
	UploadTempDir   string
	UploadFieldName string

	// Dashboard
	IngestionBaseURL     string
	DashboardHTTPTimeout time.Duration
	ChartCacheTTL        time.Duration
	AliasCatalogPath     string
}

func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:   getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:  getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxUploadSize: int64(getIntEnv("MAX_UPLOAD_BYTES", 16*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "riskatlas"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "riskatlas"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:     getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		UploadEventTopic: getEnv("UPLOAD_EVENT_TOPIC", ""),

		UploadTempDir:   getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
		UploadFieldName: getEnv("UPLOAD_FIELD_NAME", "file"),

		IngestionBaseURL:     getEnv("INGESTION_BASE_URL", "http://localhost:8080"),
		DashboardHTTPTimeout: getDuration("DASHBOARD_HTTP_TIMEOUT", 10*time.Second),
		ChartCacheTTL:        getDuration("CHART_CACHE_TTL", time.Minute),
		AliasCatalogPath:     getEnv("ALIAS_CATALOG_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
