package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("ModerationTimeout converts seconds to duration", func(t *testing.T) {
		cfg := &Config{ModerationTimeoutSeconds: 10}
		assert.Equal(t, 10*time.Second, cfg.ModerationTimeout())
	})

	t.Run("ModerationRetryBase converts milliseconds to duration", func(t *testing.T) {
		cfg := &Config{ModerationRetryBaseMS: 250}
		assert.Equal(t, 250*time.Millisecond, cfg.ModerationRetryBase())
	})

	t.Run("IsProduction", func(t *testing.T) {
		assert.True(t, (&Config{AppEnv: "production"}).IsProduction())
		assert.False(t, (&Config{AppEnv: "development"}).IsProduction())
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SESSION_SECRET", "dev-secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, 5, cfg.DBMaxConnections)
		assert.Equal(t, "", cfg.RedisURL)
		assert.Equal(t, "https://api.apilayer.com/bad_words", cfg.ModerationAPIURL)
		assert.Equal(t, 10, cfg.ModerationTimeoutSeconds)
		assert.Equal(t, 100, cfg.ModerationRetryBaseMS)
		assert.Equal(t, 5.0, cfg.ModerationRatePerSecond)
		assert.Equal(t, 60, cfg.RateLimitPerMin)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "development", cfg.AppEnv)
	})

	t.Run("loads custom values", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SESSION_SECRET", "dev-secret")
		t.Setenv("PORT", "3000")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("BAD_WORDS_API_KEY", "key-123")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "key-123", cfg.BadWordsAPIKey)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	})

	t.Run("fails without required DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("SESSION_SECRET", "dev-secret")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails without required SESSION_SECRET", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SESSION_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBMaxConnections:        5,
			ModerationRatePerSecond: 5,
			SessionSecret:           "short",
			BadWordsAPIKey:          "key",
		}
	}

	t.Run("development accepts short secret", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		cfg := base()
		cfg.AppEnv = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production accepts strong secret", func(t *testing.T) {
		cfg := base()
		cfg.AppEnv = "production"
		cfg.SessionSecret = strings.Repeat("x", 40)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive pool size", func(t *testing.T) {
		cfg := base()
		cfg.DBMaxConnections = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive moderation rate", func(t *testing.T) {
		cfg := base()
		cfg.ModerationRatePerSecond = 0
		assert.Error(t, cfg.Validate())
	})
}
