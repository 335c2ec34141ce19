package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port string
	Host string
	Mode string
}

type LoggingConfig struct {
	Level  string
	Format string // text, json
}

// StoreConfig selects where carts are persisted.
type StoreConfig struct {
	Driver  string // memory, file, redis, postgres, mongo
	FileDir string
	TTL     time.Duration // redis only, 0 keeps carts forever

	// in-memory managers unused for this long are dropped
	SessionIdleTTL time.Duration
}

type DatabaseConfig struct {
	PostgresURL string
	MongoURL    string
	MongoDBName string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

type SessionConfig struct {
	Secret        string
	TokenTTLHours int
}

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

func LoadConfig() *Config {
	// .env is optional, real environment wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", ""),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getEnv("CART_STORE", StoreMemory)),
			FileDir: getEnv("CART_FILE_DIR", "./data/carts"),
			TTL:     getEnvDuration("CART_TTL", 0),

			SessionIdleTTL: getEnvDuration("CART_SESSION_IDLE_TTL", 30*time.Minute),
		},
		Database: DatabaseConfig{
			PostgresURL: getEnv("POSTGRES_URL", ""),
			MongoURL:    getEnv("MONGO_URL", ""),
			MongoDBName: getEnv("MONGO_DB_NAME", "food_storefront"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:    getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order_events"),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", "your-secret-key"),
			TokenTTLHours: getEnvInt("SESSION_TOKEN_TTL_HOURS", 24*30),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
