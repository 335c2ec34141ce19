package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CART_STORE", "")
	t.Setenv("CART_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("CART_SESSION_IDLE_TTL", "")

	cfg := LoadConfig()

	assert.Equal(t, "", cfg.Server.Host)
	assert.Equal(t, 30*time.Minute, cfg.Store.SessionIdleTTL)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, time.Duration(0), cfg.Store.TTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "order_events", cfg.Kafka.OrderTopic)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CART_STORE", "Redis")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TOKEN_TTL_HOURS", "not-a-number")
	t.Setenv("CART_SESSION_IDLE_TTL", "5m")

	cfg := LoadConfig()

	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Store.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 24*30, cfg.Session.TokenTTLHours)
	assert.Equal(t, 5*time.Minute, cfg.Store.SessionIdleTTL)
}
