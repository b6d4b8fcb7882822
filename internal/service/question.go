package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/repository"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	censor       Censor
}

func NewQuestionService(questionRepo repository.QuestionRepository, censor Censor) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		censor:       censor,
	}
}

func (s *QuestionService) List(ctx context.Context, page model.Pagination) ([]model.Question, error) {
	questions, err := s.questionRepo.FindAll(ctx, page)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return questions, nil
}

func (s *QuestionService) Get(ctx context.Context, id int64) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if question == nil {
		return nil, apperrors.NotFound("Question")
	}
	return question, nil
}

// IsOwner reports whether accountID created the question. A missing question
// is reported as not owned.
func (s *QuestionService) IsOwner(ctx context.Context, id, accountID int64) (bool, error) {
	owned, err := s.questionRepo.IsOwner(ctx, id, accountID)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return owned, nil
}

func (s *QuestionService) Create(ctx context.Context, accountID int64, input model.QuestionInput) (*model.Question, error) {
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	title, content, err := CensorPair(ctx, s.censor, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.Create(ctx, model.CreateQuestionParams{
		Title:     title,
		Content:   content,
		Tags:      input.Tags,
		AccountID: accountID,
	})
	if errors.Is(err, repository.ErrMissingReference) {
		return nil, apperrors.NotFound("Account")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Int64("questionId", question.ID).Int64("accountId", accountID).Msg("question created")
	return question, nil
}

func (s *QuestionService) Update(ctx context.Context, accountID, id int64, input model.QuestionInput) (*model.Question, error) {
	if err := s.requireOwner(ctx, id, accountID); err != nil {
		return nil, err
	}
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	title, content, err := CensorPair(ctx, s.censor, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.Update(ctx, id, model.UpdateQuestionParams{
		Title:   title,
		Content: content,
		Tags:    input.Tags,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if question == nil {
		// deleted between the ownership check and the update
		return nil, apperrors.NotFound("Question")
	}
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, accountID, id int64) error {
	if err := s.requireOwner(ctx, id, accountID); err != nil {
		return err
	}

	deleted, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if !deleted {
		return apperrors.NotFound("Question")
	}

	log.Info().Int64("questionId", id).Int64("accountId", accountID).Msg("question deleted")
	return nil
}

func (s *QuestionService) requireOwner(ctx context.Context, id, accountID int64) error {
	owned, err := s.IsOwner(ctx, id, accountID)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.Forbidden("No permission to change the underlying resource")
	}
	return nil
}

func validateQuestion(input model.QuestionInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.MissingRequired("title")
	}
	if utf8.RuneCountInString(input.Title) > model.MaxTitleLength {
		return apperrors.InvalidInput("title", fmt.Sprintf("must be at most %d characters", model.MaxTitleLength))
	}
	if strings.TrimSpace(input.Content) == "" {
		return apperrors.MissingRequired("content")
	}
	return nil
}
