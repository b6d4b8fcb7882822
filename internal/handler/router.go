package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/questionhub/qa-server-go/internal/config"
	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/metrics"
	"github.com/questionhub/qa-server-go/internal/middleware"
	"github.com/questionhub/qa-server-go/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Accounts  *service.AccountService
	Questions *service.QuestionService
	Answers   *service.AnswerService

	Auth         *middleware.AuthMiddleware
	RateLimit    *middleware.RateLimitMiddleware
	LoginLimiter *middleware.LoginRateLimiter

	Metrics        *metrics.Registry
	DB             Pinger
	AllowedOrigins []string
	IsProduction   bool
}

func NewRouter(deps RouterDeps) chi.Router {
	protect := func(next http.Handler) http.Handler {
		return deps.Auth.Handler(deps.RateLimit.Handler(next))
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics).Handler)
	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigins).Handler)
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.IsProduction).Handler)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(middleware.NewBodyLimitMiddleware(0).Handler)

	// before Mount so sub-routers inherit them
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	r.Get("/health", healthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Mount("/questions", NewQuestionHandler(deps.Questions, deps.Answers).Routes(protect))
	r.Mount("/answers", NewAnswerHandler(deps.Answers).Routes(protect))
	NewAuthHandler(deps.Accounts).RegisterRoutes(r, deps.LoginLimiter.Handler)

	return r
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apperrors.New(apperrors.ErrCodeRouteNotFound, "Route not found"))
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("health check: database unreachable")
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, code, map[string]any{
			"status":    status,
			"timestamp": time.Now().UnixMilli(),
		})
	}
}
