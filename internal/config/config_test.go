package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("EVENT_BROKER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://marketplace:marketplace_pass@db:5432/marketplace?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "none", cfg.EventBroker)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.AutoRespondInterval)
}

func TestLoad_RequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("EVENT_BROKER", "KAFKA")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "kafka", cfg.EventBroker)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SessionCookieSecure)
}
