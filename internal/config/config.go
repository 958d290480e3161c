package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cart     CartConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Host       string
	Port       int
	AdminToken string
}

type CatalogConfig struct {
	// Source is "file" or "postgres".
	Source   string
	Path     string
	CacheTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type CartConfig struct {
	TTL        time.Duration
	RateLimit  int
	RateWindow time.Duration
}

// KafkaConfig is optional; an empty broker list disables the event stream.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host:       stringEnv("SERVER_HOST", "localhost"),
		Port:       serverPort,
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	catalogTTL, err := durationEnv("CATALOG_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	catalogCfg := CatalogConfig{
		Source:   stringEnv("CATALOG_SOURCE", "file"),
		Path:     os.Getenv("CATALOG_PATH"),
		CacheTTL: catalogTTL,
	}

	switch catalogCfg.Source {
	case "file":
		if catalogCfg.Path == "" {
			catalogCfg.Path = "catalog.json"
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("%s: invalid CATALOG_SOURCE %q", op, catalogCfg.Source)
	}

	postgresCfg, err := postgresConfig(catalogCfg.Source == "postgres")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     stringEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	cartTTL, err := durationEnv("CART_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimit, err := intEnv("RATE_LIMIT", 60)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateWindow, err := durationEnv("RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cartCfg := CartConfig{
		TTL:        cartTTL,
		RateLimit:  rateLimit,
		RateWindow: rateWindow,
	}

	kafkaCfg := KafkaConfig{
		Brokers: os.Getenv("KAFKA_BROKERS"),
		Topic:   stringEnv("KAFKA_TOPIC", "cart-events"),
	}

	return &Config{
		Server:   serverCfg,
		Catalog:  catalogCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Cart:     cartCfg,
		Kafka:    kafkaCfg,
	}, nil
}

// postgresConfig reads the POSTGRES_* variables. Credentials are only
// required when the catalog is stored in postgres.
func postgresConfig(required bool) (PostgresConfig, error) {
	port, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}

	cfg := PostgresConfig{
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Name:     os.Getenv("POSTGRES_DB"),
		Host:     stringEnv("POSTGRES_HOST", "localhost"),
		Port:     port,
		SSLMode:  stringEnv("POSTGRES_SSLMODE", "disable"),
	}

	if !required {
		return cfg, nil
	}

	if cfg.User == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_USER")
	}

	if cfg.Password == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_PASSWORD")
	}

	if cfg.Name == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_DB")
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return v, nil
}
