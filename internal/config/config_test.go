package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"SERVER_HOST", "SERVER_PORT", "ADMIN_TOKEN",
	"CATALOG_SOURCE", "CATALOG_PATH", "CATALOG_CACHE_TTL",
	"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CART_TTL", "RATE_LIMIT", "RATE_WINDOW",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
}

// clearEnv blanks every variable New reads. Blank values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "catalog.json", cfg.Catalog.Path)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, 60, cfg.Cart.RateLimit)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestNew_PostgresSourceRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_SOURCE", "postgres")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")

	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "tourcart")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "tourcart", cfg.Postgres.Name)
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SERVER_PORT", "http"},
		{"CATALOG_SOURCE", "s3"},
		{"CART_TTL", "forever"},
		{"RATE_LIMIT", "many"},
		{"REDIS_DB", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNew_Kafka(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := New()
	require.NoError(t, err)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "cart-events", cfg.Kafka.Topic)
}
