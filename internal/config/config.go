package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
	"RANDOM WORDS WINTER MACINTOSH PC",
}

type Config struct {
	Port                     int      `env:"PORT" envDefault:"8000"`
	AppEnv                   string   `env:"APP_ENV" envDefault:"development"`
	DatabaseURL              string   `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConnections         int      `env:"DB_MAX_CONNECTIONS" envDefault:"5"`
	RedisURL                 string   `env:"REDIS_URL"`
	SessionSecret            string   `env:"SESSION_SECRET,required,notEmpty"`
	BadWordsAPIKey           string   `env:"BAD_WORDS_API_KEY"`
	ModerationAPIURL         string   `env:"MODERATION_API_URL" envDefault:"https://api.apilayer.com/bad_words"`
	ModerationTimeoutSeconds int      `env:"MODERATION_TIMEOUT_SECONDS" envDefault:"10"`
	ModerationRetryBaseMS    int      `env:"MODERATION_RETRY_BASE_MS" envDefault:"100"`
	ModerationRatePerSecond  float64  `env:"MODERATION_RATE_PER_SECOND" envDefault:"5"`
	RateLimitPerMin          int      `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	CORSAllowedOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel                 string   `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) ModerationTimeout() time.Duration {
	return time.Duration(c.ModerationTimeoutSeconds) * time.Second
}

func (c *Config) ModerationRetryBase() time.Duration {
	return time.Duration(c.ModerationRetryBaseMS) * time.Millisecond
}

func (c *Config) Validate() error {
	if c.DBMaxConnections <= 0 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be positive")
	}
	if c.ModerationRatePerSecond <= 0 {
		return fmt.Errorf("MODERATION_RATE_PER_SECOND must be positive")
	}

	if c.BadWordsAPIKey == "" {
		log.Warn().Msg("BAD_WORDS_API_KEY is empty: every write that needs moderation will fail")
	}

	if c.IsProduction() {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
