package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/service"
)

type AnswerHandler struct {
	answerService *service.AnswerService
}

func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (h *AnswerHandler) Routes(protect func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(protect).Post("/", h.Create)
	return r
}

func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.AnswerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := h.answerService.Create(r.Context(), accountID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, answer)
}
