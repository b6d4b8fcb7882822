package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/repository"
)

type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	censor       Censor
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	censor Censor,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		censor:       censor,
	}
}

func (s *AnswerService) Create(ctx context.Context, accountID int64, input model.AnswerInput) (*model.Answer, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.MissingRequired("content")
	}
	if input.QuestionID <= 0 {
		return nil, apperrors.MissingRequired("question_id")
	}

	if err := s.requireQuestion(ctx, input.QuestionID); err != nil {
		return nil, err
	}

	content, err := s.censor.Check(ctx, input.Content)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.Create(ctx, model.CreateAnswerParams{
		Content:    content,
		QuestionID: input.QuestionID,
		AccountID:  accountID,
	})
	if errors.Is(err, repository.ErrMissingReference) {
		// question deleted since the check, or the account is gone
		return nil, apperrors.NotFound("Question or account")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return answer, nil
}

func (s *AnswerService) ListByQuestion(ctx context.Context, questionID int64) ([]model.Answer, error) {
	if err := s.requireQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.FindByQuestionID(ctx, questionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return answers, nil
}

func (s *AnswerService) requireQuestion(ctx context.Context, questionID int64) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return apperrors.Database(err)
	}
	if question == nil {
		return apperrors.NotFound("Question")
	}
	return nil
}
