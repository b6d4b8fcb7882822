package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/questionhub/qa-server-go/internal/audit"
	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
)

type contextKey string

const SessionContextKey contextKey = "session"

// GetSession returns the session stored by AuthMiddleware, or nil on routes
// that are not gated.
func GetSession(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(SessionContextKey).(*model.Session); ok {
		return session
	}
	return nil
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// TokenParser decodes a session token.
type TokenParser interface {
	Parse(token string) (*model.Session, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			m.reject(w, r, "missing")
			return
		}

		session, err := m.tokens.Parse(token)
		if err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("auth middleware: invalid token attempt")
			m.reject(w, r, "invalid")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, reason string) {
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventAuthFailure,
		Details: map[string]interface{}{"reason": reason, "path": r.URL.Path},
	})
	writeError(w, apperrors.InvalidToken("Invalid or missing session token"))
}

// extractToken accepts both "Bearer <token>" and a bare token.
func extractToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if scheme, rest, ok := strings.Cut(authHeader, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return authHeader
}
