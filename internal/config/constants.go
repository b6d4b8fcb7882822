package config

import "time"

// Database connection pool settings
const (
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 75 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Migration timeout at startup
const DBMigrateTimeout = 30 * time.Second

// Session tokens are valid for one day from issue.
const SessionTTL = 24 * time.Hour

// Moderation retry policy
const (
	ModerationMaxAttempts = 5
	ModerationMaxBackoff  = 2 * time.Second
)

// Background sweep of in-process rate limiter state
const (
	CleanupJobInterval = 5 * time.Minute
	CleanupJobTimeout  = 30 * time.Second
)
