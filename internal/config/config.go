package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration.
type Config struct {
	AppEnv              string
	DatabaseURL         string
	ServerAddr          string
	MigrationsDir       string
	LogLevel            string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	JWTSecret           string
	CORSAllowedOrigins  []string

	RedisAddr      string
	IdempotencyTTL time.Duration

	EventBroker  string
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string

	AutoRespondInterval time.Duration
	SessionCleanup      time.Duration
}

const devJWTSecret = "dev-only-insecure-secret"

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "marketplace")
		pass := getenv("POSTGRES_PASSWORD", "marketplace_pass")
		db := getenv("POSTGRES_DB", "marketplace")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	appEnv := getenv("APP_ENV", "production")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if appEnv != "dev" {
			return nil, errors.New("JWT_SECRET is required")
		}
		secret = devJWTSecret
	}

	cfg := &Config{
		AppEnv:              appEnv,
		DatabaseURL:         dsn,
		ServerAddr:          getenv("SERVER_ADDR", "0.0.0.0:8080"),
		MigrationsDir:       getenv("MIGRATIONS_DIR", "internal/migrations"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		SessionTTL:          parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour),
		SessionCookieName:   getenv("SESSION_COOKIE_NAME", "marketplace_session"),
		SessionCookieSecure: parseBool(getenv("SESSION_COOKIE_SECURE", "false"), false),
		JWTSecret:           secret,
		CORSAllowedOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		IdempotencyTTL:      parseDuration(getenv("IDEMPOTENCY_TTL", "24h"), 24*time.Hour),
		EventBroker:         strings.ToLower(getenv("EVENT_BROKER", "none")),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          getenv("KAFKA_TOPIC", "marketplace.events"),
		AMQPURL:             os.Getenv("AMQP_URL"),
		AMQPExchange:        getenv("AMQP_EXCHANGE", "marketplace.events"),
		AutoRespondInterval: parseDuration(getenv("AUTO_RESPOND_INTERVAL", "1m"), time.Minute),
		SessionCleanup:      parseDuration(getenv("SESSION_CLEANUP_INTERVAL", "1h"), time.Hour),
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
