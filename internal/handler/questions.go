package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questionhub/qa-server-go/internal/audit"
	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/service"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	answerService   *service.AnswerService
}

func NewQuestionHandler(questionService *service.QuestionService, answerService *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		answerService:   answerService,
	}
}

// Routes mounts the question resource. protect gates the mutating routes.
func (h *QuestionHandler) Routes(protect func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/answers", h.ListAnswers)

	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := paginationFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.questionService.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	question, err := h.questionService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	answers, err := h.answerService.ListByQuestion(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answers)
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.QuestionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	question, err := h.questionService.Create(r.Context(), accountID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.QuestionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	question, err := h.questionService.Update(r.Context(), accountID, id, input)
	if err != nil {
		h.auditDenied(r, err, accountID, id)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, err := requireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.questionService.Delete(r.Context(), accountID, id); err != nil {
		h.auditDenied(r, err, accountID, id)
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventQuestionDelete,
		AccountID: accountID,
		Details:   map[string]interface{}{"question_id": id},
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}

func (h *QuestionHandler) auditDenied(r *http.Request, err error, accountID, questionID int64) {
	if apperrors.GetCode(err) != apperrors.ErrCodeForbidden {
		return
	}
	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventOwnershipDenied,
		AccountID: accountID,
		Details:   map[string]interface{}{"question_id": questionID, "method": r.Method},
	})
}
