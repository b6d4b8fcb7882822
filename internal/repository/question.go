package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/questionhub/qa-server-go/internal/model"
)

type QuestionRepository interface {
	FindAll(ctx context.Context, page model.Pagination) ([]model.Question, error)
	FindByID(ctx context.Context, id int64) (*model.Question, error)
	Create(ctx context.Context, params model.CreateQuestionParams) (*model.Question, error)
	// Update returns nil without error when the question does not exist.
	Update(ctx context.Context, id int64, params model.UpdateQuestionParams) (*model.Question, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	IsOwner(ctx context.Context, id, accountID int64) (bool, error)
}

type questionRepo struct {
	db sqlxDB
}

func NewQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &questionRepo{db: db}
}

const questionColumns = `id, title, content, tags, account_id`

func (r *questionRepo) FindAll(ctx context.Context, page model.Pagination) ([]model.Question, error) {
	questions := []model.Question{}
	// LIMIT NULL means no limit in Postgres.
	err := r.db.SelectContext(ctx, &questions, `
		SELECT `+questionColumns+` FROM questions
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) FindByID(ctx context.Context, id int64) (*model.Question, error) {
	var question model.Question
	err := r.db.GetContext(ctx, &question, `
		SELECT `+questionColumns+` FROM questions WHERE id = $1
	`, id)
	return HandleNotFound(&question, err)
}

func (r *questionRepo) Create(ctx context.Context, params model.CreateQuestionParams) (*model.Question, error) {
	var question model.Question
	err := r.db.GetContext(ctx, &question, `
		INSERT INTO questions (title, content, tags, account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+questionColumns,
		params.Title, params.Content, tagsArg(params.Tags), params.AccountID)
	if err != nil {
		return nil, classifyConstraint(err)
	}
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, id int64, params model.UpdateQuestionParams) (*model.Question, error) {
	var question model.Question
	err := r.db.GetContext(ctx, &question, `
		UPDATE questions SET
			title = $2,
			content = $3,
			tags = $4
		WHERE id = $1
		RETURNING `+questionColumns,
		id, params.Title, params.Content, tagsArg(params.Tags))
	return HandleNotFound(&question, err)
}

func (r *questionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id))
}

func (r *questionRepo) IsOwner(ctx context.Context, id, accountID int64) (bool, error) {
	var owned bool
	err := r.db.GetContext(ctx, &owned, `
		SELECT EXISTS(SELECT 1 FROM questions WHERE id = $1 AND account_id = $2)
	`, id, accountID)
	return owned, err
}

// tagsArg stores absent tags as NULL rather than an empty array.
func tagsArg(tags []string) interface{} {
	if tags == nil {
		return nil
	}
	return pq.Array(tags)
}
