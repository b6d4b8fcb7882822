package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
)

func TestQuestionService_Create(t *testing.T) {
	ctx := context.Background()
	input := model.QuestionInput{Title: "damn title", Content: "shit content", Tags: []string{"faq"}}

	t.Run("persists censored text", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		censor.On("Check", ctx, "damn title").Return("**** title", nil)
		censor.On("Check", ctx, "shit content").Return("**** content", nil)
		repo.On("Create", ctx, model.CreateQuestionParams{
			Title:     "**** title",
			Content:   "**** content",
			Tags:      []string{"faq"},
			AccountID: 5,
		}).Return(&model.Question{ID: 1, Title: "**** title", Content: "**** content", AccountID: 5}, nil)

		s := NewQuestionService(repo, censor)
		q, err := s.Create(ctx, 5, input)

		require.NoError(t, err)
		assert.Equal(t, int64(1), q.ID)
		repo.AssertExpectations(t)
		censor.AssertExpectations(t)
	})

	t.Run("moderation failure skips persistence", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		censor.On("Check", ctx, mock.Anything).Return("", apperrors.ModerationServer(503, "down"))

		s := NewQuestionService(repo, censor)
		_, err := s.Create(ctx, 5, input)

		assert.Equal(t, apperrors.ErrCodeModerationServer, apperrors.GetCode(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing title", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)

		s := NewQuestionService(repo, censor)
		_, err := s.Create(ctx, 5, model.QuestionInput{Content: "c"})

		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
		censor.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("title longer than the column", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)

		s := NewQuestionService(repo, censor)
		_, err := s.Create(ctx, 5, model.QuestionInput{Title: strings.Repeat("a", model.MaxTitleLength+1), Content: "c"})

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		censor.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("title length counts characters, not bytes", func(t *testing.T) {
		assert.NoError(t, validateQuestion(model.QuestionInput{Title: strings.Repeat("é", model.MaxTitleLength), Content: "c"}))
	})
}

func TestQuestionService_Update(t *testing.T) {
	ctx := context.Background()
	input := model.QuestionInput{Title: "t", Content: "c"}

	t.Run("owner updates", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		repo.On("IsOwner", ctx, int64(3), int64(5)).Return(true, nil)
		censor.On("Check", ctx, "t").Return("t", nil)
		censor.On("Check", ctx, "c").Return("c", nil)
		repo.On("Update", ctx, int64(3), model.UpdateQuestionParams{Title: "t", Content: "c"}).
			Return(&model.Question{ID: 3, Title: "t", Content: "c", AccountID: 5}, nil)

		s := NewQuestionService(repo, censor)
		q, err := s.Update(ctx, 5, 3, input)

		require.NoError(t, err)
		assert.Equal(t, int64(3), q.ID)
	})

	t.Run("non-owner is forbidden before moderation", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		repo.On("IsOwner", ctx, int64(3), int64(6)).Return(false, nil)

		s := NewQuestionService(repo, censor)
		_, err := s.Update(ctx, 6, 3, input)

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		censor.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("moderation failure after ownership check leaves the row untouched", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		repo.On("IsOwner", ctx, int64(3), int64(5)).Return(true, nil)
		censor.On("Check", ctx, mock.Anything).Return("", apperrors.ModerationServer(503, "down"))

		s := NewQuestionService(repo, censor)
		_, err := s.Update(ctx, 5, 3, input)

		assert.Equal(t, apperrors.ErrCodeModerationServer, apperrors.GetCode(err))
		repo.AssertCalled(t, "IsOwner", ctx, int64(3), int64(5))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("row vanished after ownership check", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		censor := new(mockCensor)
		repo.On("IsOwner", ctx, int64(3), int64(5)).Return(true, nil)
		censor.On("Check", ctx, mock.Anything).Return("x", nil)
		repo.On("Update", ctx, int64(3), mock.Anything).Return(nil, nil)

		s := NewQuestionService(repo, censor)
		_, err := s.Update(ctx, 5, 3, input)

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestQuestionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		repo.On("IsOwner", ctx, int64(3), int64(5)).Return(true, nil)
		repo.On("Delete", ctx, int64(3)).Return(true, nil)

		s := NewQuestionService(repo, nil)
		assert.NoError(t, s.Delete(ctx, 5, 3))
		repo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		repo.On("IsOwner", ctx, int64(3), int64(6)).Return(false, nil)

		s := NewQuestionService(repo, nil)
		err := s.Delete(ctx, 6, 3)

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo := new(mockQuestionRepo)
		repo.On("IsOwner", ctx, int64(3), int64(5)).Return(true, nil)
		repo.On("Delete", ctx, int64(3)).Return(false, nil)

		s := NewQuestionService(repo, nil)
		err := s.Delete(ctx, 5, 3)

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestQuestionService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(mockQuestionRepo)
	repo.On("FindByID", ctx, int64(1)).Return(&model.Question{ID: 1}, nil)
	repo.On("FindByID", ctx, int64(2)).Return(nil, nil)

	s := NewQuestionService(repo, nil)

	q, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.ID)

	_, err = s.Get(ctx, 2)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}
