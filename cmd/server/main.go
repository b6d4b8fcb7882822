package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/questionhub/qa-server-go/internal/auth"
	"github.com/questionhub/qa-server-go/internal/config"
	"github.com/questionhub/qa-server-go/internal/database"
	"github.com/questionhub/qa-server-go/internal/handler"
	"github.com/questionhub/qa-server-go/internal/jobs"
	"github.com/questionhub/qa-server-go/internal/metrics"
	"github.com/questionhub/qa-server-go/internal/middleware"
	"github.com/questionhub/qa-server-go/internal/redis"
	"github.com/questionhub/qa-server-go/internal/repository"
	"github.com/questionhub/qa-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConnections)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("database connected")

	migrateCtx, cancel := context.WithTimeout(ctx, config.DBMigrateTimeout)
	if err := db.Migrate(migrateCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	cancel()
	log.Info().Msg("migrations applied")

	registry := metrics.NewRegistry()

	accountRepo := repository.NewAccountRepository(db.DB)
	questionRepo := repository.NewQuestionRepository(db.DB)
	answerRepo := repository.NewAnswerRepository(db.DB)

	censor := service.NewProfanityClient(service.ProfanityConfig{
		APIURL:        cfg.ModerationAPIURL,
		APIKey:        cfg.BadWordsAPIKey,
		Timeout:       cfg.ModerationTimeout(),
		RetryBase:     cfg.ModerationRetryBase(),
		MaxBackoff:    config.ModerationMaxBackoff,
		MaxAttempts:   config.ModerationMaxAttempts,
		RatePerSecond: cfg.ModerationRatePerSecond,
	}, registry)

	sessions := auth.NewSessionCodec([]byte(cfg.SessionSecret), config.SessionTTL)

	accountService := service.NewAccountService(accountRepo, sessions)
	questionService := service.NewQuestionService(questionRepo, censor)
	answerService := service.NewAnswerService(answerRepo, questionRepo, censor)

	loginLimiter := middleware.NewLoginRateLimiter()
	cleanupTasks := []jobs.Task{{Name: "login attempts", Run: loginLimiter.Sweep}}

	var accountLimiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
		accountLimiter = middleware.NewRedisRateLimiter(redisClient.Client)
	} else {
		local := middleware.NewRateLimiter()
		cleanupTasks = append(cleanupTasks, jobs.Task{Name: "account rate limits", Run: local.Sweep})
		accountLimiter = local
		log.Info().Msg("REDIS_URL not set: rate limits are per instance")
	}

	r := handler.NewRouter(handler.RouterDeps{
		Accounts:       accountService,
		Questions:      questionService,
		Answers:        answerService,
		Auth:           middleware.NewAuthMiddleware(sessions),
		RateLimit:      middleware.NewRateLimitMiddleware(accountLimiter, cfg.RateLimitPerMin),
		LoginLimiter:   loginLimiter,
		Metrics:        registry,
		DB:             db,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		IsProduction:   cfg.IsProduction(),
	})

	cleanupJob := jobs.NewCleanupJob(config.CleanupJobInterval, config.CleanupJobTimeout, cleanupTasks...)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
