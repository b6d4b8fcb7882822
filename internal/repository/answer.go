package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/questionhub/qa-server-go/internal/model"
)

type AnswerRepository interface {
	// Create returns ErrMissingReference when the question does not exist.
	Create(ctx context.Context, params model.CreateAnswerParams) (*model.Answer, error)
	FindByQuestionID(ctx context.Context, questionID int64) ([]model.Answer, error)
}

type answerRepo struct {
	db sqlxDB
}

func NewAnswerRepository(db *sqlx.DB) AnswerRepository {
	return &answerRepo{db: db}
}

func (r *answerRepo) Create(ctx context.Context, params model.CreateAnswerParams) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.GetContext(ctx, &answer, `
		INSERT INTO answers (content, corresponding_question, account_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, corresponding_question, account_id
	`, params.Content, params.QuestionID, params.AccountID)
	if err != nil {
		return nil, classifyConstraint(err)
	}
	return &answer, nil
}

func (r *answerRepo) FindByQuestionID(ctx context.Context, questionID int64) ([]model.Answer, error) {
	answers := []model.Answer{}
	err := r.db.SelectContext(ctx, &answers, `
		SELECT id, content, corresponding_question, account_id FROM answers
		WHERE corresponding_question = $1
		ORDER BY id
	`, questionID)
	if err != nil {
		return nil, err
	}
	return answers, nil
}
