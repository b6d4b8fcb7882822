package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionhub/qa-server-go/internal/audit"
	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/service"
)

type AuthHandler struct {
	accountService *service.AccountService
}

func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// RegisterRoutes adds /registration and /login to r at the top level. limit wraps
// both, typically with the per-IP login limiter.
func (h *AuthHandler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/registration", h.Registration)
		r.Post("/login", h.Login)
	})
}

func (h *AuthHandler) Registration(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.accountService.Register(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventAccountCreate,
		AccountID: account.ID,
		Email:     account.Email,
	})

	writeJSON(w, http.StatusOK, account)
}

// Login responds with the session token as a JSON string.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, r, err)
		return
	}

	token, account, err := h.accountService.Login(r.Context(), creds)
	if err != nil {
		event := audit.Event{Type: audit.EventLoginFailure, Email: creds.Email}
		if account != nil {
			event.AccountID = account.ID
		}
		audit.LogFromRequest(r, event)
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventLoginSuccess,
		AccountID: account.ID,
		Email:     account.Email,
	})

	writeJSON(w, http.StatusOK, token)
}
