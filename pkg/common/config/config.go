package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Model artifacts
	ModelDir          string
	FeatureSchemaPath string
	TierRulesPath     string

	// Database (screening audit log)
	AuditLogEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis (result cache)
	ResultCacheEnabled bool
	ResultCacheTTL     time.Duration
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int

	// Kafka (screening events)
	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	modelDir := getEnv("MODEL_DIR", "configs/models")

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		ModelDir:          modelDir,
		FeatureSchemaPath: getEnv("FEATURE_SCHEMA_PATH", "configs/features.json"),
		TierRulesPath:     getEnv("TIER_RULES_PATH", ""),

		AuditLogEnabled:  getBoolEnv("AUDIT_LOG_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "mirai"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "mirai123"),
		PostgresDB:       getEnv("POSTGRES_DB", "mirai"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ResultCacheEnabled: getBoolEnv("RESULT_CACHE_ENABLED", false),
		ResultCacheTTL:     getDuration("RESULT_CACHE_TTL", 15*time.Minute),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_SCREENING_TOPIC", "screening-events"),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
